package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	domain "github.com/example/todo-service/domain/user"
	"github.com/google/uuid"
)

var (
	// ErrMissingFields is returned when required signup/login fields are absent.
	ErrMissingFields = errors.New("missing required fields")
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrWeakPassword is returned when password is too weak.
	ErrWeakPassword = errors.New("password must be at least 8 characters with a letter and a digit")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrPasswordMismatch is returned when login password verification fails.
	ErrPasswordMismatch = errors.New("password does not match")
	// ErrAlreadyLogout is returned when logout finds no stored session token.
	ErrAlreadyLogout = errors.New("user already logged out")
	// ErrTokenRequired is returned when an operation needs a resolved identity.
	ErrTokenRequired = errors.New("authentication token required")
)

// AuthService handles signup, login, logout and token verification.
type AuthService struct {
	repo   *UserRepository
	hasher *PasswordHasher
	tokens *TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, hasher *PasswordHasher, tokens *TokenManager) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

// Signup creates a new user account, issues a session token and stores it
// as the user's auth_token. The caller is responsible for redacting the
// token and hash from the response view.
func (s *AuthService) Signup(_ context.Context, name, email, password string) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	if err := validatePassword(password); err != nil {
		return nil, err
	}

	// Advisory fast path; the unique index on email is authoritative.
	exists, err := s.repo.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.New().String()
	token, err := s.tokens.Generate(id, email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		AuthToken:    token,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and issues a fresh session token,
// overwriting the previously stored one.
func (s *AuthService) Login(_ context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrPasswordMismatch
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.repo.SetAuthToken(user.ID, token); err != nil {
		return nil, err
	}

	user.AuthToken = token
	return user, nil
}

// Logout clears the user's stored session token. Any still-unexpired
// token for this user is rejected afterwards by ValidateToken.
func (s *AuthService) Logout(_ context.Context, email string) error {
	if email == "" {
		return ErrTokenRequired
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return err
	}

	if user.AuthToken == "" {
		return ErrAlreadyLogout
	}

	return s.repo.ClearAuthToken(user.ID)
}

// ValidateToken verifies the token cryptographically, then checks it is
// still the user's live session token. A token superseded by a newer
// login or cleared by logout is rejected even before its expiry.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.AuthToken != token {
		return nil, ErrInvalidToken
	}

	return &domain.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(_ context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(userID)
}

// validatePassword enforces the password policy: at least 8 characters
// containing a letter and a digit, at most bcrypt's 72-byte limit.
func validatePassword(password string) error {
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}

package auth

import (
	domain "github.com/example/todo-service/domain/user"
)

// SignupRequest represents a user signup request.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse is the redacted user view. The password hash and the
// issued session token are both withheld; the token is obtained by login.
type SignupResponse = domain.View

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the user view including the fresh session token.
type LoginResponse = domain.View

// LogoutRequest identifies the session to clear by the caller's email.
type LogoutRequest struct {
	Email string `json:"email"`
}

// LogoutResponse represents a logout response.
type LogoutResponse struct{}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Error  string `json:"error,omitempty"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserResponse is the redacted user view without the session token.
type GetUserResponse = domain.View

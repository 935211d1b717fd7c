package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	return NewAuthService(repo, NewPasswordHasher(), NewTokenManager(TokenConfig{
		SecretKey: "service-test-secret",
		Issuer:    "test-issuer",
		TTL:       time.Hour,
	}))
}

func TestAuthService_Signup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "Amy", "amy@x.com", "pass1234")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if user.Email != "amy@x.com" {
		t.Errorf("Email = %q, want %q", user.Email, "amy@x.com")
	}
	if user.PasswordHash == "pass1234" || user.PasswordHash == "" {
		t.Error("password must be stored as a hash")
	}
	if user.AuthToken == "" {
		t.Error("signup should store a session token")
	}

	// Second signup with the same email fails
	_, err = svc.Signup(ctx, "Amy Again", "amy@x.com", "pass1234")
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "missing name",
			userName: "",
			email:    "a@x.com",
			password: "pass1234",
			wantErr:  ErrMissingFields,
		},
		{
			name:     "missing email",
			userName: "A",
			email:    "",
			password: "pass1234",
			wantErr:  ErrMissingFields,
		},
		{
			name:     "missing password",
			userName: "A",
			email:    "a@x.com",
			password: "",
			wantErr:  ErrMissingFields,
		},
		{
			name:     "invalid email",
			userName: "A",
			email:    "not-an-email",
			password: "pass1234",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "too short password",
			userName: "A",
			email:    "a@x.com",
			password: "pw1",
			wantErr:  ErrWeakPassword,
		},
		{
			name:     "password without digit",
			userName: "A",
			email:    "a@x.com",
			password: "passwords",
			wantErr:  ErrWeakPassword,
		},
		{
			name:     "password without letter",
			userName: "A",
			email:    "a@x.com",
			password: "12345678",
			wantErr:  ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.userName, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Signup() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	signedUp, err := svc.Signup(ctx, "Amy", "amy@x.com", "pass1234")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "amy@x.com", "wrong")
		if !errors.Is(err, ErrPasswordMismatch) {
			t.Errorf("expected ErrPasswordMismatch, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@x.com", "pass1234")
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, "", "")
		if !errors.Is(err, ErrMissingFields) {
			t.Errorf("expected ErrMissingFields, got %v", err)
		}
	})

	t.Run("success overwrites stored token", func(t *testing.T) {
		user, err := svc.Login(ctx, "amy@x.com", "pass1234")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if user.AuthToken == "" {
			t.Fatal("login should return a session token")
		}
		if user.AuthToken == signedUp.AuthToken {
			t.Error("login should issue a fresh token, not reuse the signup token")
		}

		// The superseded signup token no longer validates
		if _, err := svc.ValidateToken(ctx, signedUp.AuthToken); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken for superseded token, got %v", err)
		}

		// The fresh token does
		claims, err := svc.ValidateToken(ctx, user.AuthToken)
		if err != nil {
			t.Fatalf("ValidateToken() error = %v", err)
		}
		if claims.UserID != user.ID || claims.Email != user.Email {
			t.Errorf("claims = %+v, want identity of %s", claims, user.Email)
		}
	})
}

func TestAuthService_Logout(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "Amy", "amy@x.com", "pass1234")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	t.Run("no identity", func(t *testing.T) {
		if err := svc.Logout(ctx, ""); !errors.Is(err, ErrTokenRequired) {
			t.Errorf("expected ErrTokenRequired, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if err := svc.Logout(ctx, "nobody@x.com"); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("clears the session token", func(t *testing.T) {
		if err := svc.Logout(ctx, "amy@x.com"); err != nil {
			t.Fatalf("Logout() error = %v", err)
		}

		// A logged-out token is rejected even though it is unexpired
		if _, err := svc.ValidateToken(ctx, user.AuthToken); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken after logout, got %v", err)
		}
	})

	t.Run("second logout fails", func(t *testing.T) {
		if err := svc.Logout(ctx, "amy@x.com"); !errors.Is(err, ErrAlreadyLogout) {
			t.Errorf("expected ErrAlreadyLogout, got %v", err)
		}
	})
}

func TestAuthService_ValidateToken_StoreUnavailable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	svc := NewAuthService(repo, NewPasswordHasher(), NewTokenManager(TokenConfig{
		SecretKey: "service-test-secret",
		Issuer:    "test-issuer",
		TTL:       time.Hour,
	}))
	ctx := context.Background()

	user, err := svc.Signup(ctx, "Amy", "amy@x.com", "pass1234")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() error = %v", err)
	}
	sqlDB.Close()

	// A store failure surfaces as an error, not as a rejected token
	_, err = svc.ValidateToken(ctx, user.AuthToken)
	if err == nil {
		t.Fatal("ValidateToken() expected error with the store down")
	}
	if errors.Is(err, ErrInvalidToken) {
		t.Errorf("store failure reported as ErrInvalidToken: %v", err)
	}
}

func TestAuthService_ValidateToken_NotIssuedHere(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// A syntactically valid token signed elsewhere is rejected
	other := NewTokenManager(TokenConfig{
		SecretKey: "some-other-secret",
		Issuer:    "other",
		TTL:       time.Hour,
	})
	token, err := other.Generate("user-1", "a@x.com")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := svc.ValidateToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

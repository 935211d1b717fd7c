package auth

import (
	"errors"
	"testing"
	"time"

	domain "github.com/example/todo-service/domain/user"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestUser(email string) *domain.User {
	now := time.Now()
	return &domain.User{
		ID:           uuid.New().String(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$12$notarealhash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := newTestUser("create@example.com")
	if err := repo.Create(user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.FindByEmail("create@example.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("expected ID %q, got %q", user.ID, found.ID)
	}
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	if err := repo.Create(newTestUser("dup@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := repo.Create(newTestUser("dup@example.com"))
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.FindByEmail("nobody@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_SetAndClearAuthToken(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := newTestUser("token@example.com")
	if err := repo.Create(user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.SetAuthToken(user.ID, "token-1"); err != nil {
		t.Fatalf("SetAuthToken() error = %v", err)
	}

	found, err := repo.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.AuthToken != "token-1" {
		t.Errorf("AuthToken = %q, want %q", found.AuthToken, "token-1")
	}

	// Overwriting replaces, never appends
	if err := repo.SetAuthToken(user.ID, "token-2"); err != nil {
		t.Fatalf("SetAuthToken() error = %v", err)
	}
	found, _ = repo.FindByID(user.ID)
	if found.AuthToken != "token-2" {
		t.Errorf("AuthToken = %q, want %q", found.AuthToken, "token-2")
	}

	if err := repo.ClearAuthToken(user.ID); err != nil {
		t.Fatalf("ClearAuthToken() error = %v", err)
	}
	found, _ = repo.FindByID(user.ID)
	if found.AuthToken != "" {
		t.Errorf("AuthToken = %q, want empty", found.AuthToken)
	}
}

func TestUserRepository_SetAuthToken_UnknownUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	err := repo.SetAuthToken("missing-id", "token")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

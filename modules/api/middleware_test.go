package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "github.com/example/todo-service/domain/user"
	"github.com/example/todo-service/modules/auth"
	"github.com/example/todo-service/modules/task"
	"github.com/gofiber/fiber/v2"
)

// mockAuthPort is a configurable AuthPort for handler tests.
type mockAuthPort struct {
	signupFn   func(ctx context.Context, req auth.SignupRequest) (auth.SignupResponse, error)
	loginFn    func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	logoutFn   func(ctx context.Context, email string) error
	validateFn func(ctx context.Context, token string) (*domain.Claims, error)
	getUserFn  func(ctx context.Context, userID string) (auth.GetUserResponse, error)
}

var _ auth.AuthPort = (*mockAuthPort)(nil)

func (m *mockAuthPort) Signup(ctx context.Context, req auth.SignupRequest) (auth.SignupResponse, error) {
	return m.signupFn(ctx, req)
}

func (m *mockAuthPort) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	return m.loginFn(ctx, req)
}

func (m *mockAuthPort) Logout(ctx context.Context, email string) error {
	return m.logoutFn(ctx, email)
}

func (m *mockAuthPort) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	return m.validateFn(ctx, token)
}

func (m *mockAuthPort) GetUser(ctx context.Context, userID string) (auth.GetUserResponse, error) {
	return m.getUserFn(ctx, userID)
}

// mockTaskPort is a configurable TaskPort for handler tests.
type mockTaskPort struct {
	createFn func(ctx context.Context, req task.CreateTaskRequest) (task.TaskResponse, error)
	getFn    func(ctx context.Context, id, ownerID string) (task.TaskResponse, error)
	listFn   func(ctx context.Context, ownerID string) (task.ListTasksResponse, error)
	updateFn func(ctx context.Context, req task.UpdateTaskRequest) (task.TaskResponse, error)
	deleteFn func(ctx context.Context, id, ownerID string) (task.TaskResponse, error)
}

var _ task.TaskPort = (*mockTaskPort)(nil)

func (m *mockTaskPort) Create(ctx context.Context, req task.CreateTaskRequest) (task.TaskResponse, error) {
	return m.createFn(ctx, req)
}

func (m *mockTaskPort) Get(ctx context.Context, id, ownerID string) (task.TaskResponse, error) {
	return m.getFn(ctx, id, ownerID)
}

func (m *mockTaskPort) List(ctx context.Context, ownerID string) (task.ListTasksResponse, error) {
	return m.listFn(ctx, ownerID)
}

func (m *mockTaskPort) Update(ctx context.Context, req task.UpdateTaskRequest) (task.TaskResponse, error) {
	return m.updateFn(ctx, req)
}

func (m *mockTaskPort) Delete(ctx context.Context, id, ownerID string) (task.TaskResponse, error) {
	return m.deleteFn(ctx, id, ownerID)
}

// decodeEnvelope parses a response body into the uniform envelope.
func decodeEnvelope(t *testing.T, resp *http.Response) Envelope {
	t.Helper()
	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return env
}

func TestAuthMiddleware(t *testing.T) {
	validClaims := &domain.Claims{UserID: "user-1", Email: "amy@x.com"}
	authPort := &mockAuthPort{
		validateFn: func(_ context.Context, token string) (*domain.Claims, error) {
			switch token {
			case "good-token":
				return validClaims, nil
			case "boom-token":
				return nil, errors.New("validate-token request failed: connection lost")
			default:
				return nil, errors.New("token validation failed: invalid token")
			}
		},
	}

	app := fiber.New()
	app.Use(AuthMiddleware(authPort))
	app.Get("/protected", func(c *fiber.Ctx) error {
		cl, ok := claims(c)
		if !ok {
			return failure(c, fiber.StatusInternalServerError, "claims missing")
		}
		return success(c, fiber.StatusOK, cl, "ok")
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantErr    string
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: fiber.StatusBadRequest,
			wantErr:    "authentication token required",
		},
		{
			name:       "not a bearer token",
			authHeader: "Basic abc123",
			wantStatus: fiber.StatusBadRequest,
			wantErr:    "authentication token required",
		},
		{
			name:       "empty bearer token",
			authHeader: "Bearer ",
			wantStatus: fiber.StatusBadRequest,
			wantErr:    "authentication token required",
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			wantStatus: fiber.StatusUnauthorized,
			wantErr:    "authentication failed",
		},
		{
			name:       "validation unavailable",
			authHeader: "Bearer boom-token",
			wantStatus: fiber.StatusInternalServerError,
			wantErr:    "an internal error occurred",
		},
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			wantStatus: fiber.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			env := decodeEnvelope(t, resp)
			if tt.wantErr != "" && env.Err != tt.wantErr {
				t.Errorf("err = %q, want %q", env.Err, tt.wantErr)
			}
		})
	}
}

func TestAuthMiddleware_StoresClaims(t *testing.T) {
	authPort := &mockAuthPort{
		validateFn: func(context.Context, string) (*domain.Claims, error) {
			return &domain.Claims{UserID: "user-1", Email: "amy@x.com"}, nil
		},
	}

	app := fiber.New()
	app.Use(AuthMiddleware(authPort))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		cl, ok := claims(c)
		if !ok {
			return failure(c, fiber.StatusInternalServerError, "claims missing")
		}
		return success(c, fiber.StatusOK, cl, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	env := decodeEnvelope(t, resp)
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data is %T, want object", env.Data)
	}
	if data["user_id"] != "user-1" {
		t.Errorf("claims user_id = %v, want %q", data["user_id"], "user-1")
	}
	if data["email"] != "amy@x.com" {
		t.Errorf("claims email = %v, want %q", data["email"], "amy@x.com")
	}
}

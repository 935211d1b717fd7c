package api

import (
	"log"
	"strings"

	domain "github.com/example/todo-service/domain/user"
	"github.com/example/todo-service/modules/auth"
	"github.com/example/todo-service/modules/task"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authPort auth.AuthPort
	taskPort task.TaskPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, taskPort task.TaskPort) *Handlers {
	return &Handlers{
		authPort: authPort,
		taskPort: taskPort,
	}
}

// claims returns the identity resolved by the auth middleware.
func claims(c *fiber.Ctx) (*domain.Claims, bool) {
	cl, ok := c.Locals(UserContextKey).(*domain.Claims)
	return cl, ok
}

// Signup handles user registration.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var body signupBody
	if err := c.BodyParser(&body); err != nil {
		return failure(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.authPort.Signup(c.UserContext(), auth.SignupRequest{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		return h.handleAuthError(c, err)
	}

	return success(c, fiber.StatusCreated, resp, "user created successfully")
}

// Login handles user login and returns the fresh session token.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body loginBody
	if err := c.BodyParser(&body); err != nil {
		return failure(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.authPort.Login(c.UserContext(), auth.LoginRequest{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		return h.handleAuthError(c, err)
	}

	return success(c, fiber.StatusOK, resp, "login successful")
}

// Logout clears the caller's stored session token.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	cl, ok := claims(c)
	if !ok || cl.Email == "" {
		return failure(c, fiber.StatusBadRequest, "authentication token required")
	}

	if err := h.authPort.Logout(c.UserContext(), cl.Email); err != nil {
		return h.handleLogoutError(c, err)
	}

	return success(c, fiber.StatusOK, struct{}{}, "logout successful")
}

// Me returns the caller's profile, token excluded.
func (h *Handlers) Me(c *fiber.Ctx) error {
	cl, ok := claims(c)
	if !ok {
		return failure(c, fiber.StatusBadRequest, "authentication token required")
	}

	resp, err := h.authPort.GetUser(c.UserContext(), cl.UserID)
	if err != nil {
		return h.handleAuthError(c, err)
	}

	return success(c, fiber.StatusOK, resp, "user fetched successfully")
}

// CreateTask creates a task owned by the caller.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	cl, ok := claims(c)
	if !ok {
		return failure(c, fiber.StatusBadRequest, "authentication token required")
	}

	var body createTaskBody
	if err := c.BodyParser(&body); err != nil {
		return failure(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.taskPort.Create(c.UserContext(), task.CreateTaskRequest{
		OwnerID:     cl.UserID,
		Title:       body.Title,
		Description: body.Description,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return success(c, fiber.StatusCreated, resp, "task created successfully")
}

// ListTasks lists the caller's active tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	cl, ok := claims(c)
	if !ok {
		return failure(c, fiber.StatusBadRequest, "authentication token required")
	}

	resp, err := h.taskPort.List(c.UserContext(), cl.UserID)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return success(c, fiber.StatusOK, resp, "tasks fetched successfully")
}

// GetTask fetches a single task owned by the caller.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	cl, ok := claims(c)
	if !ok {
		return failure(c, fiber.StatusBadRequest, "authentication token required")
	}

	resp, err := h.taskPort.Get(c.UserContext(), c.Params("id"), cl.UserID)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return success(c, fiber.StatusOK, resp, "task fetched successfully")
}

// UpdateTask applies a partial update to a task owned by the caller.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	cl, ok := claims(c)
	if !ok {
		return failure(c, fiber.StatusBadRequest, "authentication token required")
	}

	var body updateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return failure(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.taskPort.Update(c.UserContext(), task.UpdateTaskRequest{
		ID:          c.Params("id"),
		OwnerID:     cl.UserID,
		Title:       body.Title,
		Description: body.Description,
		State:       body.State,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return success(c, fiber.StatusOK, resp, "task updated successfully")
}

// DeleteTask tombstones a task owned by the caller.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	cl, ok := claims(c)
	if !ok {
		return failure(c, fiber.StatusBadRequest, "authentication token required")
	}

	resp, err := h.taskPort.Delete(c.UserContext(), c.Params("id"), cl.UserID)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return success(c, fiber.StatusOK, resp, "task deleted successfully")
}

// handleAuthError translates signup/login errors to the envelope. Error
// identity crosses the service container as message text, so matching is
// by substring, following the service error values.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "missing required fields"):
		return failure(c, fiber.StatusBadRequest, "missing required fields")
	case strings.Contains(errStr, "invalid email format"):
		return failure(c, fiber.StatusBadRequest, "invalid email format")
	case strings.Contains(errStr, "password must be"):
		return failure(c, fiber.StatusBadRequest, errTextAfterPrefix(errStr, "password must be"))
	case strings.Contains(errStr, "user with this email already exists"):
		return failure(c, fiber.StatusBadRequest, "user with this email already exists")
	case strings.Contains(errStr, "user does not exist"):
		return failure(c, fiber.StatusBadRequest, "user does not exist")
	case strings.Contains(errStr, "password does not match"):
		return failure(c, fiber.StatusBadRequest, "password does not match")
	default:
		log.Printf("[api] Internal error: %v", err)
		return failure(c, fiber.StatusInternalServerError, "an internal error occurred")
	}
}

// handleLogoutError translates logout errors to the envelope. Unknown
// user and already-logged-out map to 404 per the operations table.
func (h *Handlers) handleLogoutError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "authentication token required"):
		return failure(c, fiber.StatusBadRequest, "authentication token required")
	case strings.Contains(errStr, "user does not exist"):
		return failure(c, fiber.StatusNotFound, "user does not exist")
	case strings.Contains(errStr, "already logged out"):
		return failure(c, fiber.StatusNotFound, "user already logged out")
	default:
		log.Printf("[api] Internal error: %v", err)
		return failure(c, fiber.StatusInternalServerError, "an internal error occurred")
	}
}

// handleTaskError translates task service errors to the envelope.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "title is required"):
		return failure(c, fiber.StatusBadRequest, "title is required")
	case strings.Contains(errStr, "task with this title already exists"):
		return failure(c, fiber.StatusBadRequest, "task with this title already exists")
	case strings.Contains(errStr, "task does not exist"):
		return failure(c, fiber.StatusBadRequest, "task does not exist")
	case strings.Contains(errStr, "task not found"):
		return failure(c, fiber.StatusBadRequest, "task not found")
	case strings.Contains(errStr, "invalid task state"):
		return failure(c, fiber.StatusBadRequest, "invalid task state")
	default:
		log.Printf("[api] Internal error: %v", err)
		return failure(c, fiber.StatusInternalServerError, "an internal error occurred")
	}
}

// errTextAfterPrefix returns the error text starting at the first
// occurrence of prefix, dropping transport wrapping before it.
func errTextAfterPrefix(s, prefix string) string {
	if i := strings.Index(s, prefix); i >= 0 {
		return s[i:]
	}
	return s
}

package task

import (
	"time"

	domain "github.com/example/todo-service/domain/task"
)

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// GetTaskRequest represents a single-task fetch request.
type GetTaskRequest struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

// ListTasksRequest represents a task list request.
type ListTasksRequest struct {
	OwnerID string `json:"owner_id"`
}

// UpdateTaskRequest represents a partial task update. Nil fields are
// left unchanged.
type UpdateTaskRequest struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	State       *string `json:"state,omitempty"`
}

// DeleteTaskRequest represents a task delete request.
type DeleteTaskRequest struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

// TaskResponse represents a task in service responses.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	State       string    `json:"state"`
	IsDeleted   bool      `json:"is_deleted"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListTasksResponse represents a task list response.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// toTaskResponse converts a Task entity to a TaskResponse.
func toTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		State:       task.State,
		IsDeleted:   task.IsDeleted,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

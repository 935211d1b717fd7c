package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort defines the interface other modules use for task operations.
type TaskPort interface {
	Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	Get(ctx context.Context, id, ownerID string) (TaskResponse, error)
	List(ctx context.Context, ownerID string) (ListTasksResponse, error)
	Update(ctx context.Context, req UpdateTaskRequest) (TaskResponse, error)
	Delete(ctx context.Context, id, ownerID string) (TaskResponse, error)
}

// TaskAdapter implements TaskPort using the service container.
type TaskAdapter struct {
	container mono.ServiceContainer
}

// Compile-time interface check.
var _ TaskPort = (*TaskAdapter)(nil)

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	return &TaskAdapter{
		container: container,
	}
}

// Create creates a task for the owner.
func (a *TaskAdapter) Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error) {
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return TaskResponse{}, fmt.Errorf("create request failed: %w", err)
	}
	return resp, nil
}

// Get fetches a single active task owned by ownerID.
func (a *TaskAdapter) Get(ctx context.Context, id, ownerID string) (TaskResponse, error) {
	req := GetTaskRequest{ID: id, OwnerID: ownerID}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return TaskResponse{}, fmt.Errorf("get request failed: %w", err)
	}
	return resp, nil
}

// List fetches the owner's active tasks.
func (a *TaskAdapter) List(ctx context.Context, ownerID string) (ListTasksResponse, error) {
	req := ListTasksRequest{OwnerID: ownerID}
	var resp ListTasksResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return ListTasksResponse{}, fmt.Errorf("list request failed: %w", err)
	}
	return resp, nil
}

// Update applies a partial update to an owned task.
func (a *TaskAdapter) Update(ctx context.Context, req UpdateTaskRequest) (TaskResponse, error) {
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"update",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return TaskResponse{}, fmt.Errorf("update request failed: %w", err)
	}
	return resp, nil
}

// Delete tombstones an owned task and returns the tombstoned record.
func (a *TaskAdapter) Delete(ctx context.Context, id, ownerID string) (TaskResponse, error) {
	req := DeleteTaskRequest{ID: id, OwnerID: ownerID}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"delete",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return TaskResponse{}, fmt.Errorf("delete request failed: %w", err)
	}
	return resp, nil
}

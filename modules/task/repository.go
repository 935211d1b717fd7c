package task

import (
	"errors"
	"fmt"
	"time"

	domain "github.com/example/todo-service/domain/task"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound is returned when no active task matches the query.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskExists is returned when an active task with the same title
	// already exists for the owner.
	ErrTaskExists = errors.New("task with this title already exists")
)

// TaskRepository handles task persistence using GORM. Every read and
// duplicate check is scoped to active (non-deleted) rows; tombstones stay
// in the table.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Migrate creates the tasks table and the partial unique index that
// guards per-owner title uniqueness among active tasks. The index is the
// authoritative duplicate check; two concurrent creates cannot both
// insert.
func (r *TaskRepository) Migrate() error {
	if err := r.db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate tasks table: %w", err)
	}
	if err := r.db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_owner_title_active ON tasks(user_id, title) WHERE is_deleted = 0",
	).Error; err != nil {
		return fmt.Errorf("failed to create unique index: %w", err)
	}
	return nil
}

// Create saves a new task.
func (r *TaskRepository) Create(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrTaskExists
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindActive retrieves an active task by id, scoped to its owner.
func (r *TaskRepository) FindActive(id, ownerID string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.First(&task, "id = ? AND user_id = ? AND is_deleted = ?", id, ownerID, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// ListActive retrieves all active tasks owned by ownerID in storage order.
func (r *TaskRepository) ListActive(ownerID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.Find(&tasks, "user_id = ? AND is_deleted = ?", ownerID, false).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// TitleExists checks whether the owner already has an active task with
// the given title, excluding excludeID. Advisory fast path; the partial
// unique index is authoritative.
func (r *TaskRepository) TitleExists(ownerID, title, excludeID string) (bool, error) {
	var count int64
	q := r.db.Model(&domain.Task{}).
		Where("user_id = ? AND title = ? AND is_deleted = ?", ownerID, title, false)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update saves changed fields of an existing active task. The struct is
// re-stamped with the write time so callers serialize what the row holds.
func (r *TaskRepository) Update(task *domain.Task) error {
	task.UpdatedAt = time.Now()
	result := r.db.Model(&domain.Task{}).
		Where("id = ? AND is_deleted = ?", task.ID, false).
		Updates(map[string]any{
			"title":       task.Title,
			"description": task.Description,
			"state":       task.State,
			"user_id":     task.UserID,
			"updated_at":  task.UpdatedAt,
		})
	if err := result.Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrTaskExists
		}
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// SoftDelete tombstones an active task owned by ownerID and returns the
// tombstoned record. The row is retained.
func (r *TaskRepository) SoftDelete(id, ownerID string) (*domain.Task, error) {
	task, err := r.FindActive(id, ownerID)
	if err != nil {
		return nil, err
	}

	result := r.db.Model(&domain.Task{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}

	task.IsDeleted = true
	return task, nil
}

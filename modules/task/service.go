package task

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	domain "github.com/example/todo-service/domain/task"
	"github.com/example/todo-service/modules/cache"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrMissingTitle is returned when create is called without a title.
	ErrMissingTitle = errors.New("title is required")
	// ErrTaskNotExist is returned when update/delete target no active owned task.
	ErrTaskNotExist = errors.New("task does not exist")
	// ErrInvalidState is returned for a state outside the allowed enum.
	ErrInvalidState = errors.New("invalid task state")
)

// TaskService applies validation and ownership scoping above the
// repository. Reads go through the Redis cache when one is configured;
// cache failures degrade to the store, never to an error.
type TaskService struct {
	repo    *TaskRepository
	cache   cache.CacheService
	sfGroup singleflight.Group // Prevents cache stampede
}

// NewTaskService creates a new TaskService. The cache may be nil, in
// which case every read hits the store.
func NewTaskService(repo *TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// SetCache attaches the read cache. Called once during wiring.
func (s *TaskService) SetCache(c cache.CacheService) {
	s.cache = c
}

// cacheKeyTask returns the cache key for a single task.
func cacheKeyTask(ownerID, id string) string {
	return "task:" + ownerID + ":" + id
}

// cacheKeyList returns the cache key for an owner's task list.
func cacheKeyList(ownerID string) string {
	return "list:" + ownerID
}

// Create persists a new task owned by ownerID. The repository-level
// unique index is the authoritative duplicate guard.
func (s *TaskService) Create(ctx context.Context, ownerID, title, description string) (*domain.Task, error) {
	if title == "" {
		return nil, ErrMissingTitle
	}

	// Advisory fast path.
	exists, err := s.repo.TitleExists(ownerID, title, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check title existence: %w", err)
	}
	if exists {
		return nil, ErrTaskExists
	}

	now := time.Now()
	task := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		State:       domain.StateIncomplete,
		IsDeleted:   false,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(task); err != nil {
		return nil, err
	}

	s.invalidate(ctx, ownerID, task.ID)
	return task, nil
}

// Get retrieves an active task owned by ownerID, cache-aside.
func (s *TaskService) Get(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	if s.cache != nil {
		var cached domain.Task
		found, err := s.cache.Get(ctx, cacheKeyTask(ownerID, id), &cached)
		if err != nil {
			log.Printf("[task] Cache error for id=%s: %v", id, err)
		}
		if found {
			return &cached, nil
		}
	}

	// Collapse concurrent misses for the same task into one query.
	val, err, _ := s.sfGroup.Do(cacheKeyTask(ownerID, id), func() (any, error) {
		return s.repo.FindActive(id, ownerID)
	})
	if err != nil {
		return nil, err
	}
	task := val.(*domain.Task)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKeyTask(ownerID, id), task); err != nil {
			log.Printf("[task] Warning: failed to cache task id=%s: %v", id, err)
		}
	}

	return task, nil
}

// List retrieves all active tasks owned by ownerID, cache-aside.
func (s *TaskService) List(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	if s.cache != nil {
		var cached []*domain.Task
		found, err := s.cache.Get(ctx, cacheKeyList(ownerID), &cached)
		if err != nil {
			log.Printf("[task] Cache error for list owner=%s: %v", ownerID, err)
		}
		if found {
			return cached, nil
		}
	}

	tasks, err := s.repo.ListActive(ownerID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKeyList(ownerID), tasks); err != nil {
			log.Printf("[task] Warning: failed to cache list owner=%s: %v", ownerID, err)
		}
	}

	return tasks, nil
}

// UpdateFields is a partial update: nil fields are left unchanged.
type UpdateFields struct {
	Title       *string
	Description *string
	State       *string
}

// Update applies the supplied fields to an active task owned by ownerID.
// The owner is always re-stamped to the caller, so ownership never
// transfers.
func (s *TaskService) Update(ctx context.Context, id, ownerID string, fields UpdateFields) (*domain.Task, error) {
	task, err := s.repo.FindActive(id, ownerID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrTaskNotExist
		}
		return nil, err
	}

	if fields.Title != nil && *fields.Title != "" && *fields.Title != task.Title {
		dup, err := s.repo.TitleExists(ownerID, *fields.Title, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check title existence: %w", err)
		}
		if dup {
			return nil, ErrTaskExists
		}
		task.Title = *fields.Title
	}
	if fields.Description != nil {
		task.Description = *fields.Description
	}
	if fields.State != nil {
		if !domain.ValidState(*fields.State) {
			return nil, ErrInvalidState
		}
		task.State = *fields.State
	}
	task.UserID = ownerID

	if err := s.repo.Update(task); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrTaskNotExist
		}
		return nil, err
	}

	s.invalidate(ctx, ownerID, id)
	return task, nil
}

// Delete tombstones an active task owned by ownerID and returns the
// tombstoned record. A second delete of the same task fails because the
// record is no longer active.
func (s *TaskService) Delete(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	task, err := s.repo.SoftDelete(id, ownerID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrTaskNotExist
		}
		return nil, err
	}

	s.invalidate(ctx, ownerID, id)
	return task, nil
}

// invalidate drops the owner's cached entries after a mutation.
func (s *TaskService) invalidate(ctx context.Context, ownerID, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKeyTask(ownerID, id)); err != nil {
		log.Printf("[task] Warning: failed to invalidate task cache id=%s: %v", id, err)
	}
	if err := s.cache.Delete(ctx, cacheKeyList(ownerID)); err != nil {
		log.Printf("[task] Warning: failed to invalidate list cache owner=%s: %v", ownerID, err)
	}
}

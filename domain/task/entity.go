package task

import (
	"time"
)

// Task states.
const (
	StateIncomplete = "incomplete"
	StateCompleted  = "completed"
)

// ValidState reports whether s is one of the allowed task states.
func ValidState(s string) bool {
	return s == StateIncomplete || s == StateCompleted
}

// Task represents a to-do item owned by exactly one user. Deletion is a
// logical tombstone: IsDeleted flips to true and the row is retained.
// Title uniqueness among an owner's active tasks is enforced by a partial
// unique index on (user_id, title) where is_deleted = 0.
type Task struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	Title       string    `gorm:"not null;type:text" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	State       string    `gorm:"not null;default:incomplete;type:text" json:"state"`
	IsDeleted   bool      `gorm:"not null;default:false" json:"is_deleted"`
	UserID      string    `gorm:"not null;index;type:text" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

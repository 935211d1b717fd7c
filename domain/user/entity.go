package user

import (
	"time"
)

// User represents a registered account. PasswordHash and AuthToken are
// stored but never serialized directly; View is the external shape.
type User struct {
	ID           string `gorm:"primaryKey;type:text"`
	Name         string `gorm:"not null;type:text"`
	Email        string `gorm:"uniqueIndex;not null;type:text"`
	PasswordHash string `gorm:"not null;type:text"`
	AuthToken    string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// View is the redacted representation of a user returned by the API.
// Login responses carry the session token, signup responses do not.
type View struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AuthToken string    `json:"auth_token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// View converts the user to its redacted representation.
func (u *User) View(includeToken bool) View {
	v := View{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if includeToken {
		v.AuthToken = u.AuthToken
	}
	return v
}

// Claims is the identity resolved from a verified session token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

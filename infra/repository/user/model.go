package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user record in the database.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"uniqueIndex;not null;size:255"`
	Password  string    `gorm:"not null"`
	Fullname  string    `gorm:"not null;size:255"`
	Phone     string    `gorm:"size:32"`
	Image     string    `gorm:"size:512"`
	ImageID   string    `gorm:"size:255"`
	IsAdmin   bool      `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

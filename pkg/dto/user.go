package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserCreate represents the data needed to persist a new user.
type UserCreate struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password,omitempty" validate:"required"`
	Fullname string    `json:"fullname" validate:"required"`
	Phone    string    `json:"phone,omitempty"`
	IsAdmin  bool      `json:"isAdmin"`
}

// UserUpdate represents the profile fields that can be changed.
type UserUpdate struct {
	Fullname *string `json:"fullname,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Image    *string `json:"image,omitempty"`
	ImageID  *string `json:"-"`
	IsAdmin  *bool   `json:"-"`
}

// UserRead represents a read-optimized view of a user.
type UserRead struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Fullname       string    `json:"fullname"`
	Phone          string    `json:"phone,omitempty"`
	Image          string    `json:"image,omitempty"`
	ImageID        string    `json:"-"`
	IsAdmin        bool      `json:"isAdmin"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserSummary is the slice of a user shown next to a transaction.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Fullname string    `json:"fullname"`
	Email    string    `json:"email"`
}

package user

import (
	"strings"
	"time"

	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/utils"
	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when a user cannot be found in the
	// repository.
	ErrUserNotFound = domain.NewError(domain.ErrNotFound, "user not found")
	// ErrUserUnauthorized is returned when credentials do not match a user.
	ErrUserUnauthorized = domain.NewError(domain.ErrUnauthorized, "email & password not match")
	// ErrEmailTaken is returned on registration with an email already in use.
	ErrEmailTaken = domain.NewError(domain.ErrAlreadyExists, "user has been registered")
)

// MinPasswordLength and MaxPasswordLength bound the accepted plain password.
// bcrypt ignores everything past 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// User represents a cinema account.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Fullname  string    `json:"fullname"`
	Phone     string    `json:"phone"`
	Image     string    `json:"image"`
	ImageID   string    `json:"-"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New creates a new User with a hashed password and current timestamps.
func New(email, password, fullname string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !utils.IsEmail(email) {
		return nil, domain.Validationf("email must be a valid address")
	}
	if strings.TrimSpace(fullname) == "" {
		return nil, domain.Validationf("fullname is required")
	}
	if len(password) < MinPasswordLength {
		return nil, domain.Validationf("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return nil, domain.Validationf("password must be at most %d characters", MaxPasswordLength)
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		Password:  hashedPassword,
		Fullname:  strings.TrimSpace(fullname),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

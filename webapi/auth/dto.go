package auth

import "github.com/amirasaad/cinema/pkg/dto"

// RegisterInput represents the request body for creating an account.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Fullname string `json:"fullname" validate:"required,max=100"`
}

// LoginInput represents the request body for user authentication.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UserWithToken is the user shown after register and login.
type UserWithToken struct {
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	IsAdmin  bool   `json:"isAdmin"`
	Image    string `json:"image,omitempty"`
	Token    string `json:"token"`
}

// UserData wraps a user for the envelope.
type UserData struct {
	User any `json:"user"`
}

func withToken(u *dto.UserRead, token string) UserData {
	return UserData{User: UserWithToken{
		Email:    u.Email,
		Fullname: u.Fullname,
		IsAdmin:  u.IsAdmin,
		Image:    u.Image,
		Token:    token,
	}}
}

package user

// UpdateProfileInput represents the editable profile fields. Absent fields
// are kept. The body may be JSON or multipart when an image is attached.
type UpdateProfileInput struct {
	Fullname *string `json:"fullname" form:"fullname" validate:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone" form:"phone" validate:"omitempty,max=20"`
}

// UserData wraps a user for the envelope.
type UserData struct {
	User any `json:"user"`
}

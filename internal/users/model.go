package users

import (
	"strings"
	"time"
)

// User represents an account created at sign-up. Profiles are immutable:
// no update operation exists on this surface.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phoneNumber"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateUserRequest carries the profile mapped from sign-up credentials.
type CreateUserRequest struct {
	Name         string
	Role         string
	Email        string
	PhoneNumber  string
	PasswordHash string
}

// Validate validates the create user request
func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(r.Email) == "" || !strings.Contains(r.Email, "@") {
		return ErrInvalidEmail
	}
	if r.PasswordHash == "" {
		return ErrMissingPassword
	}
	return nil
}

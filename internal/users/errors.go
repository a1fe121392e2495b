package users

import "errors"

var (
	// ErrMissingName is returned when the name is empty
	ErrMissingName = errors.New("name is required")

	// ErrInvalidEmail is returned when the email is empty or malformed
	ErrInvalidEmail = errors.New("a valid email is required")

	// ErrMissingPassword is returned when no password hash was supplied
	ErrMissingPassword = errors.New("password is required")

	// ErrEmailTaken is returned when an account already exists for the email
	ErrEmailTaken = errors.New("an account with this email already exists")
)

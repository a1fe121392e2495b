package patients

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when create/update is attempted
	// without a resolved caller identity. The message is part of the
	// observable contract and is propagated to the caller unchanged.
	ErrUnauthenticated = errors.New("you must be logged in to create a patient")

	// ErrInvalidGender is returned for gender values outside Male/Female/Other
	ErrInvalidGender = errors.New("gender must be Male, Female or Other")

	// ErrConsentRequired is returned when any of the three consent flags
	// is not granted
	ErrConsentRequired = errors.New("treatment, disclosure and privacy consent are required")
)

// MissingFieldError reports a required patient field that was left empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

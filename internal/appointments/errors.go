package appointments

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by patch operations against an id that has no
// record. Point lookups never return it; they report absence as nil.
var ErrNotFound = errors.New("appointment not found")

// MissingFieldError reports a required creation field that was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

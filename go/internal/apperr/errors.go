package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a record to read, mutate or delete does not exist
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned for any admin secret mismatch
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStaleVersion is returned when a session write was based on an outdated version
	ErrStaleVersion = errors.New("stale session version")

	// ErrPrecondition is returned when the current state does not allow the operation
	ErrPrecondition = errors.New("precondition failed")
)

// ValidationError reports a request rejected before any mutation.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (fields: %s)", e.Message, strings.Join(e.Fields, ", "))
}

// Invalid builds a ValidationError naming the offending fields
func Invalid(message string, fields ...string) error {
	return &ValidationError{Fields: fields, Message: message}
}

// NotFound wraps ErrNotFound with the kind and id of the missing record
func NotFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint would be violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation marks input that was rejected before reaching the gateway.
	ErrValidation = errors.New("validation failed")
)

// ValidationError wraps ErrValidation with a user-facing message.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

package common

import (
	"errors"
	"fmt"
)

// Workflow error kinds. Callers wrap them with %w and match with errors.Is.
var (
	// Input errors
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateSubmission = errors.New("already submitted today")
	ErrInvalidTransition   = fmt.Errorf("%w: post already reviewed", ErrValidation)

	// Lookup errors
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource already exists")

	// Auth errors
	ErrAuth         = errors.New("invalid username or password")
	ErrUnauthorized = errors.New("login required")
	ErrForbidden    = errors.New("forbidden")

	// Remote errors
	ErrTimeout     = errors.New("connection timed out")
	ErrTransport   = errors.New("remote service failure")
	ErrFormat      = errors.New("malformed stored field")
	ErrUnavailable = errors.New("temporarily unavailable")
)

// Validationf builds a validation error with a user-facing reason
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// RemoteError is a failure reported by the remote console API. Message is the
// server's own reason and is shown to the user verbatim.
type RemoteError struct {
	Kind    error
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != 0 {
		return fmt.Sprintf("%v (status %d)", e.Kind, e.Status)
	}
	return e.Kind.Error()
}

// Unwrap lets errors.Is match the error kind
func (e *RemoteError) Unwrap() error {
	return e.Kind
}

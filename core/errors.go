package core

import "github.com/pkg/errors"

// ErrAuthRequired is returned by scoped queries invoked without an
// authenticated identity; they fail fast instead of returning an
// unscoped (or silently empty) result.
var ErrAuthRequired = errors.New("authentication required")

// ErrPermissionDenied is returned when an authenticated identity's role
// does not allow the requested operation.
var ErrPermissionDenied = errors.New("permission denied")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

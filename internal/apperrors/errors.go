package apperrors

import (
	"errors"
	"net/http"
)

// Error kinds. Every error returned by a service wraps exactly one of these.
var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("resource not found")
	ErrAuthentication  = errors.New("authentication failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// CustomError carries a client-facing message on top of an error kind.
type CustomError struct {
	Err     error
	Message string
	Fields  map[string]string
	Status  int
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithStatus overrides the HTTP status derived from the error kind.
func (e *CustomError) WithStatus(status int) *CustomError {
	e.Status = status
	return e
}

// NewValidationError creates a validation error. fields may be nil.
func NewValidationError(message string, fields map[string]string) *CustomError {
	return &CustomError{Err: ErrValidation, Message: message, Fields: fields}
}

// NewConflictError creates a uniqueness violation error.
func NewConflictError(message string) *CustomError {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(message string) *CustomError {
	return &CustomError{Err: ErrNotFound, Message: message}
}

// NewAuthenticationError creates a bad credentials error.
func NewAuthenticationError(message string) *CustomError {
	return &CustomError{Err: ErrAuthentication, Message: message}
}

// NewUnauthenticatedError creates a missing or invalid session error.
func NewUnauthenticatedError(message string) *CustomError {
	return &CustomError{Err: ErrUnauthenticated, Message: message}
}

// NewForbiddenError creates a permission denied error.
func NewForbiddenError(message string) *CustomError {
	return &CustomError{Err: ErrForbidden, Message: message}
}

// StatusCode maps err to the HTTP status it should be rendered with.
func StatusCode(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Status != 0 {
		return ce.Status
	}

	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAuthentication), errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// IsKnown reports whether err belongs to the taxonomy above. Anything else is
// an internal error whose message must not reach clients.
func IsKnown(err error) bool {
	return StatusCode(err) != http.StatusInternalServerError
}

// FieldErrors returns the per-field messages attached to a validation error.
func FieldErrors(err error) map[string]string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Fields
	}
	return nil
}

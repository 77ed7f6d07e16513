package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrMalformedData = errors.New("malformed data")
)

// Error carries a client-visible message, its kind, and an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error   { return newf(ErrValidation, format, args...) }
func Unauthorized(format string, args ...any) error { return newf(ErrUnauthorized, format, args...) }
func Forbidden(format string, args ...any) error    { return newf(ErrForbidden, format, args...) }
func NotFound(format string, args ...any) error     { return newf(ErrNotFound, format, args...) }
func Conflict(format string, args ...any) error     { return newf(ErrConflict, format, args...) }

// Wrap attaches a kind and client-visible message to cause.
func Wrap(kind, cause error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// Malformed wraps a parser failure so the diagnostic survives to the caller.
func Malformed(err error, format string, args ...any) error {
	return Wrap(ErrMalformedData, err, format, args...)
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-visible message of err, or fallback when err
// carries none.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

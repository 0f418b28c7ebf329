package types

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	InvalidInput    ErrorKind = "invalid_input"
	Unauthenticated ErrorKind = "unauthenticated"
	Forbidden       ErrorKind = "forbidden"
	NotFound        ErrorKind = "not_found"
	Conflict        ErrorKind = "conflict"
	Unavailable     ErrorKind = "unavailable"
)

// AppError is the single failure shape returned by services. Message is safe
// to show to callers; Err carries the underlying cause for server-side logs.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewInvalidInput(msg string) *AppError {
	return &AppError{Kind: InvalidInput, Message: msg}
}

func NewUnauthenticated(msg string) *AppError {
	return &AppError{Kind: Unauthenticated, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{Kind: Forbidden, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{Kind: NotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{Kind: Conflict, Message: msg}
}

func NewUnavailable(msg string, err error) *AppError {
	return &AppError{Kind: Unavailable, Message: msg, Err: err}
}

// KindOf reports the kind of err. Errors that are not an *AppError count as
// Unavailable.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unavailable
}

// IsKind reports whether err is an *AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

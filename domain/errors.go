package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the HTTP layer can map them to status
// codes without inspecting message text.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindExternal   ErrorKind = "external"
)

// Error is the structured failure type returned by every engine.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewValidationError reports malformed or out-of-range input.
func NewValidationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports an unknown loan type or similar lookup miss.
func NewNotFoundError(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewExternalError reports a failed call to an external dependency.
func NewExternalError(format string, args ...any) error {
	return &Error{Kind: KindExternal, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or KindValidation when err is not a
// structured *Error (engines only fail on invalid input).
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindValidation
}

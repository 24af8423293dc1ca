// Package apperr defines the error taxonomy shared by handlers and services.
// Every failure raised below the HTTP layer carries one of these kinds; the
// response boundary maps the kind to a status code and the uniform error
// envelope. Errors without a kind default to Internal.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for the response boundary.
type Kind int

const (
	// Internal is the default for unexpected failures.
	Internal Kind = iota
	// InvalidInput covers missing or malformed request fields and identifiers.
	InvalidInput
	// Unauthorized covers missing, invalid, or expired credentials and tokens.
	Unauthorized
	// Forbidden covers authenticated callers acting on entities they don't own.
	Forbidden
	// NotFound covers absent entities.
	NotFound
	// Conflict covers duplicate unique fields on creation.
	Conflict
)

// Error pairs a kind with a caller-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error with the provided kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the caller-facing message for err. Unclassified errors get
// a generic internal message so driver details never leak to clients.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// StatusOf maps err's kind to an HTTP status code.
func StatusOf(err error) int {
	switch KindOf(err) {
	case InvalidInput:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

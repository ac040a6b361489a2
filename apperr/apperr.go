// Package apperr defines the application error taxonomy. Services return
// *Error values; controllers translate them to HTTP responses at the
// request boundary and log anything wrapped inside.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Validation is malformed or missing input.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// Conflict covers duplicate resources, most notably a duplicate email.
// It reports 400, matching the frontend contract.
func Conflict(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// Auth is a missing, invalid or expired token, or bad credentials.
func Auth(message string) *Error {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

// Upstream is a payment-provider failure or timeout. The provider response
// is kept on Err for server-side logging only.
func Upstream(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// Internal wraps an unexpected store or infrastructure failure behind a
// generic message.
func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "Internal server error", err)
}

// From returns err as an *Error, wrapping unknown errors as Internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// Package apperr defines the error taxonomy shared by the marketplace layer
// and the HTTP API. Every error carries an HTTP status and a stable code so
// callers can branch on the class of failure without parsing messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error codes.
const (
	CodeInternal          = "INTERNAL_ERROR"
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeRateLimited       = "RATE_LIMIT_EXCEEDED"
	CodeInvalidAIResponse = "INVALID_AI_RESPONSE"
)

// Error is an application error with an HTTP status, a stable code, and an
// optional cause.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error

	// RetryAfter is set on rate-limit errors when the wait is known.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error. A zero status defaults to 500 and an empty code
// defaults to CodeInternal.
func New(message string, status int, code string) *Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if code == "" {
		code = CodeInternal
	}
	return &Error{Status: status, Code: code, Message: message}
}

// Wrap creates an Error that keeps err as its cause.
func Wrap(err error, message string, status int, code string) *Error {
	e := New(message, status, code)
	e.Err = err
	return e
}

// Validation reports malformed caller input. It is never worth retrying.
func Validation(message string) *Error {
	return New(message, http.StatusBadRequest, CodeValidation)
}

// Validationf is Validation with formatting.
func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

// NotFound reports that the requested resource does not exist.
func NotFound(message string) *Error {
	return New(message, http.StatusNotFound, CodeNotFound)
}

// RateLimited reports provider quota exhaustion.
func RateLimited(message string, retryAfter time.Duration) *Error {
	e := New(message, http.StatusTooManyRequests, CodeRateLimited)
	e.RetryAfter = retryAfter
	return e
}

// StatusOf returns the HTTP status carried by err, or 500 when err is not
// an *Error.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the code carried by err, or CodeInternal.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

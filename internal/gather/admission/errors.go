// Package admission gates state-changing requests before business logic.
package admission

import "errors"

// ErrorCode represents a typed rejection code.
type ErrorCode string

const (
	CodeInvalidInput    ErrorCode = "INVALID_INPUT"
	CodeOriginRejected  ErrorCode = "ORIGIN_REJECTED"
	CodeRateLimited     ErrorCode = "RATE_LIMITED"
	CodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeConflict        ErrorCode = "CONFLICT"
	CodeUpstreamError   ErrorCode = "UPSTREAM_ERROR"
)

// AppError is a typed application error.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Wrap creates a new AppError.
func Wrap(code ErrorCode, msg string, err error) error {
	return &AppError{Code: code, Message: msg, Err: err}
}

// CodeOf returns the ErrorCode for an error.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// ErrInvalidInput indicates validation failures.
var ErrInvalidInput = &AppError{Code: CodeInvalidInput, Message: "invalid input"}

// ErrNotFound indicates missing resources.
var ErrNotFound = &AppError{Code: CodeNotFound, Message: "not found"}

// ErrUnauthenticated indicates a missing or invalid login session.
var ErrUnauthenticated = &AppError{Code: CodeUnauthenticated, Message: "unauthorized"}

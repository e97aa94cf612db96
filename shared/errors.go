package shared

import (
	"errors"
	"net/http"
)

// AppError is the error type services return to the HTTP boundary. The
// central fiber error handler maps it to the response envelope; anything
// else becomes a 500.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether err carries a 4xx status. The cache layer
// uses this to decide retry eligibility: client errors are never retried.
func IsClientError(err error) bool {
	if appErr, ok := GetAppError(err); ok {
		return appErr.StatusCode >= 400 && appErr.StatusCode < 500
	}
	return false
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NewBadRequestError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message, Err: err}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{StatusCode: http.StatusUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{StatusCode: http.StatusForbidden, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message}
}

// NewConflictError covers data-integrity failures that are pre-checked
// before a write (e.g. deleting content students have progress against).
func NewConflictError(message string, data interface{}) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Message: message, Data: data}
}

func NewInternalError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}

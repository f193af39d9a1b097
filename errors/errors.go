package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// APIErrorType categorizes the outcomes a client can see
type APIErrorType string

const (
	ValidationError  APIErrorType = "validation"
	NotFoundError    APIErrorType = "not_found"
	NoCompletedError APIErrorType = "no_completed"
	UnavailableError APIErrorType = "unavailable"
	InternalError    APIErrorType = "internal"
)

// APIError provides structured error information with HTTP status suggestions
type APIError struct {
	Type    APIErrorType   `json:"type"`
	Message string         `json:"message"`
	Code    int            `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Constructor functions for common error types
func NewValidationError(message string, details ...map[string]any) *APIError {
	var d map[string]any
	if len(details) > 0 {
		d = details[0]
	}
	return &APIError{
		Type:    ValidationError,
		Message: message,
		Code:    http.StatusBadRequest,
		Details: d,
	}
}

func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    NotFoundError,
		Message: message,
		Code:    http.StatusNotFound,
	}
}

// NewNoCompletedError reports a bulk delete that matched nothing.
func NewNoCompletedError(message string) *APIError {
	return &APIError{
		Type:    NoCompletedError,
		Message: message,
		Code:    http.StatusBadRequest,
	}
}

func NewUnavailableError(message string) *APIError {
	return &APIError{
		Type:    UnavailableError,
		Message: message,
		Code:    http.StatusServiceUnavailable,
	}
}

func NewInternalError(message string) *APIError {
	return &APIError{
		Type:    InternalError,
		Message: message,
		Code:    http.StatusInternalServerError,
	}
}

// IsAPIError checks if an error is (or wraps) an APIError and returns it
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

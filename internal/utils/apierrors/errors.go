// Package apierrors defines the service error taxonomy and its HTTP mapping.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error.
type ErrorType string

const (
	ErrorTypeBadRequest      ErrorType = "BAD_REQUEST"
	ErrorTypeInvalidSession  ErrorType = "INVALID_SESSION"
	ErrorTypeSessionExpired  ErrorType = "SESSION_EXPIRED"
	ErrorTypeUpstreamTimeout ErrorType = "UPSTREAM_TIMEOUT"
	ErrorTypeUpstreamError   ErrorType = "UPSTREAM_ERROR"
	ErrorTypeStorageError    ErrorType = "STORAGE_ERROR"
	ErrorTypeInternal        ErrorType = "INTERNAL"
)

// APIError carries a machine-readable code plus a human-readable message.
// Code is what ends up in the response body's "error" field.
type APIError struct {
	Type    ErrorType
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s][%s] %s: %v", e.Type, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s][%s] %s", e.Type, e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// New creates a new APIError.
func New(errorType ErrorType, code, message string, err error) *APIError {
	return &APIError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// BadRequest creates a validation error with the given code.
func BadRequest(code, message string) *APIError {
	return New(ErrorTypeBadRequest, code, message, nil)
}

// InvalidSession creates a session credential error.
func InvalidSession(message string, err error) *APIError {
	return New(ErrorTypeInvalidSession, "invalid_session", message, err)
}

// SessionExpired creates an expired session credential error.
func SessionExpired(message string) *APIError {
	return New(ErrorTypeSessionExpired, "session_expired", message, nil)
}

// UpstreamTimeout creates a completion provider timeout error.
func UpstreamTimeout(err error) *APIError {
	return New(ErrorTypeUpstreamTimeout, "upstream_timeout", "completion provider timed out", err)
}

// UpstreamError creates a completion provider failure carrying the upstream
// status and body for diagnostics.
func UpstreamError(status int, body string, err error) *APIError {
	return New(ErrorTypeUpstreamError, "upstream_error",
		fmt.Sprintf("completion provider failed (status %d): %s", status, body), err)
}

// Storage creates a persistence error. Storage errors are logged and
// swallowed by callers, never returned to the end user.
func Storage(message string, err error) *APIError {
	return New(ErrorTypeStorageError, "storage_error", message, err)
}

// Get extracts an *APIError from an error chain, or nil.
func Get(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// IsType checks whether err is an APIError of the given type.
func IsType(err error, errorType ErrorType) bool {
	if apiErr := Get(err); apiErr != nil {
		return apiErr.Type == errorType
	}
	return false
}

// ToHTTPStatus maps error types to HTTP status codes.
func ToHTTPStatus(errorType ErrorType) int {
	switch errorType {
	case ErrorTypeBadRequest:
		return http.StatusBadRequest
	case ErrorTypeInvalidSession, ErrorTypeSessionExpired:
		return http.StatusUnauthorized
	case ErrorTypeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case ErrorTypeUpstreamError:
		return http.StatusBadGateway
	case ErrorTypeStorageError, ErrorTypeInternal:
		fallthrough
	default:
		return http.StatusInternalServerError
	}
}

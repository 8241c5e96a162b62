package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeRateLimited indicates the upstream rejected the call for quota reasons
	ErrorTypeRateLimited ErrorType = "RATE_LIMITED"

	// ErrorTypeAuthFailure indicates a rejected credential
	ErrorTypeAuthFailure ErrorType = "AUTH_FAILURE"

	// ErrorTypeUnavailable indicates a transient upstream failure after retries
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"

	// ErrorTypeUpstream indicates a structurally broken upstream response
	ErrorTypeUpstream ErrorType = "UPSTREAM"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewRateLimitedError creates a new rate-limited error
func NewRateLimitedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeRateLimited,
		Message: message,
	}
}

// NewAuthFailureError creates a new auth failure error
func NewAuthFailureError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeAuthFailure,
		Message: message,
	}
}

// NewUnavailableError creates a new unavailable error
func NewUnavailableError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewUpstreamError creates a new upstream error carrying the upstream message
func NewUpstreamError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeUpstream,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsRateLimited reports whether err is a rate-limited error
func IsRateLimited(err error) bool { return IsType(err, ErrorTypeRateLimited) }

// IsAuthFailure reports whether err is an auth failure
func IsAuthFailure(err error) bool { return IsType(err, ErrorTypeAuthFailure) }

// IsUnavailable reports whether err is a transient unavailable error
func IsUnavailable(err error) bool { return IsType(err, ErrorTypeUnavailable) }

// IsUpstream reports whether err is a structural upstream error
func IsUpstream(err error) bool { return IsType(err, ErrorTypeUpstream) }

package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies application errors so callers can branch on the
// class of failure without string matching.
type ErrorType string

const (
	// ErrorTypeNotFound indicates a referenced resource does not exist.
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a missing, empty or out-of-range field.
	// Referential failures (an unknown owner, author or amenity id) are
	// surfaced with this type as well.
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates a collision with existing data, such as a
	// duplicate email, a duplicate review or a self-review attempt.
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeUnauthorized indicates the subject may not act on the resource.
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeInternal indicates an unexpected failure in this service or
	// its storage backend.
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError is the error value carried across layer boundaries.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// TypeOf returns the ErrorType of err, or ErrorTypeInternal when err is not
// an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsValidation reports whether err is a validation-class failure.
func IsValidation(err error) bool { return TypeOf(err) == ErrorTypeValidation }

// IsConflict reports whether err is a conflict with existing data.
func IsConflict(err error) bool { return TypeOf(err) == ErrorTypeConflict }

// IsNotFound reports whether err marks an absent resource.
func IsNotFound(err error) bool { return TypeOf(err) == ErrorTypeNotFound }

// NewNotFoundError creates a not found error.
func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message}
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Type: ErrorTypeUnauthorized, Message: message}
}

// NewInternalError creates an internal error wrapping its cause.
func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

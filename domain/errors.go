package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches domain errors by code and message so wrapped sentinels compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound        = NewError(ErrCodeNotFound, "user not found")
	ErrTaskNotFound        = NewError(ErrCodeNotFound, "task not found")
	ErrActiveTimerNotFound = NewError(ErrCodeNotFound, "no active timer found")
	ErrTimeLogNotFound     = NewError(ErrCodeNotFound, "time log not found")

	ErrUserExists         = NewError(ErrCodeConflict, "user already exists")
	ErrTaskCompleted      = NewError(ErrCodeConflict, "cannot modify completed tasks")
	ErrTimerOnCompleted   = NewError(ErrCodeConflict, "cannot start timer for completed tasks")
	ErrTimerAlreadyActive = NewError(ErrCodeConflict, "stop the current timer before starting a new one")

	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "invalid credentials")

	ErrInvalidPayload  = NewError(ErrCodeInvalid, "invalid payload")
	ErrMissingFields   = NewError(ErrCodeInvalid, "all fields are required")
	ErrMissingLogin    = NewError(ErrCodeInvalid, "email and password are required")
	ErrWeakPassword    = NewError(ErrCodeInvalid, "password must be at least 6 characters")
	ErrPasswordTooLong = NewError(ErrCodeInvalid, "password must be at most 72 bytes")
	ErrTitleRequired   = NewError(ErrCodeInvalid, "title is required")
	ErrInvalidStatus   = NewError(ErrCodeInvalid, "invalid task status")
	ErrTaskIDRequired  = NewError(ErrCodeInvalid, "task id is required")
	ErrInvalidDate     = NewError(ErrCodeInvalid, "date must be formatted as YYYY-MM-DD")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

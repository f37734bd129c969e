package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Tree errors
	ErrTreeBuild   ErrorCode = "TREE_BUILD"
	ErrPathOutside ErrorCode = "PATH_OUTSIDE"

	// Planning errors
	ErrConflict ErrorCode = "CONFLICT"

	// Execution errors
	ErrBackupCreate  ErrorCode = "BACKUP_CREATE"
	ErrRemove        ErrorCode = "REMOVE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrStatSync      ErrorCode = "STAT_SYNC"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// OverlinkError represents a structured error with code and details
type OverlinkError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *OverlinkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *OverlinkError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *OverlinkError) Is(target error) bool {
	var targetErr *OverlinkError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new OverlinkError with the given code and message
func New(code ErrorCode, message string) *OverlinkError {
	return &OverlinkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new OverlinkError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *OverlinkError {
	return &OverlinkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an OverlinkError
func Wrap(err error, code ErrorCode, message string) *OverlinkError {
	if err == nil {
		return nil
	}
	return &OverlinkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *OverlinkError {
	if err == nil {
		return nil
	}
	return &OverlinkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *OverlinkError) WithDetail(key string, value interface{}) *OverlinkError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *OverlinkError) WithDetails(details map[string]interface{}) *OverlinkError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var olErr *OverlinkError
	if errors.As(err, &olErr) {
		return olErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an OverlinkError
func GetErrorCode(err error) ErrorCode {
	var olErr *OverlinkError
	if errors.As(err, &olErr) {
		return olErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an OverlinkError
func GetErrorDetails(err error) map[string]interface{} {
	var olErr *OverlinkError
	if errors.As(err, &olErr) {
		return olErr.Details
	}
	return nil
}

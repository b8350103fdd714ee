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

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigValid   ErrorCode = "CONFIG_INVALID"
	ErrConfigMissing ErrorCode = "CONFIG_MISSING"

	// Template drift: the rendered project no longer matches what the
	// customizer expects to find in it.
	ErrTemplateDrift  ErrorCode = "TEMPLATE_DRIFT"
	ErrMarkerNotFound ErrorCode = "MARKER_NOT_FOUND"

	// External tool errors
	ErrToolNotFound ErrorCode = "TOOL_NOT_FOUND"
	ErrToolFailed   ErrorCode = "TOOL_FAILED"
	ErrRender       ErrorCode = "RENDER"
	ErrLintFailed   ErrorCode = "LINT_FAILED"

	// Environment limitations
	ErrNoSecureRandom ErrorCode = "NO_SECURE_RANDOM"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrFileRemove   ErrorCode = "FILE_REMOVE"
)

// PostgenError represents a structured error with code and details
type PostgenError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PostgenError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PostgenError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a PostgenError with the same code
func (e *PostgenError) Is(target error) bool {
	var targetErr *PostgenError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PostgenError with the given code and message
func New(code ErrorCode, message string) *PostgenError {
	return &PostgenError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PostgenError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PostgenError {
	return &PostgenError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PostgenError
func Wrap(err error, code ErrorCode, message string) *PostgenError {
	if err == nil {
		return nil
	}
	return &PostgenError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PostgenError {
	if err == nil {
		return nil
	}
	return &PostgenError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PostgenError) WithDetail(key string, value interface{}) *PostgenError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var pgErr *PostgenError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PostgenError
func GetErrorCode(err error) ErrorCode {
	var pgErr *PostgenError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a PostgenError
func GetErrorDetails(err error) map[string]interface{} {
	var pgErr *PostgenError
	if errors.As(err, &pgErr) {
		return pgErr.Details
	}
	return nil
}

// IsDrift reports whether err signals that the rendered project and the
// customizer have fallen out of sync.
func IsDrift(err error) bool {
	switch GetErrorCode(err) {
	case ErrTemplateDrift, ErrMarkerNotFound, ErrFileNotFound:
		return true
	}
	return false
}

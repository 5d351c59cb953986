package errors

import "fmt"

// ErrorCode represents a Hangar error code.
type ErrorCode string

const (
	ErrInvalidPath    ErrorCode = "INVALID_PATH"    // 400
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrConflict       ErrorCode = "CONFLICT"        // 409
	ErrTooLarge       ErrorCode = "TOO_LARGE"       // 413
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// HangarError represents a structured error with code, status, and details.
type HangarError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *HangarError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidPath creates a 400 error for malformed or root-escaping paths.
func NewInvalidPath(msg string) *HangarError {
	return &HangarError{
		Code:    ErrInvalidPath,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *HangarError {
	return &HangarError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing file or category.
func NewNotFound(identifier string) *HangarError {
	return &HangarError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewConflict creates a 409 error for a target that already exists.
func NewConflict(msg string) *HangarError {
	return &HangarError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewTooLarge creates a 413 error when content exceeds the size limit.
func NewTooLarge(max, actual int64) *HangarError {
	return &HangarError{
		Code:    ErrTooLarge,
		Status:  413,
		Message: fmt.Sprintf("content exceeds maximum size: %d bytes (max %d)", actual, max),
		Details: map[string]any{"max_bytes": max, "actual_bytes": actual},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *HangarError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &HangarError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a HangarError with the given code.
func Is(err error, code ErrorCode) bool {
	if hErr, ok := err.(*HangarError); ok {
		return hErr.Code == code
	}
	return false
}

// StatusOf returns the HTTP status for an error.
// Errors that are not HangarErrors map to 500.
func StatusOf(err error) int {
	if hErr, ok := err.(*HangarError); ok {
		return hErr.Status
	}
	return 500
}

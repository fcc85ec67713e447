package engine

import "fmt"

// Error represents a domain-specific engine error.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	ErrCodeNotInitialized       = "NOT_INITIALIZED"
	ErrCodeAlreadyInitialized   = "ALREADY_INITIALIZED"
	ErrCodeStartupFailed        = "STARTUP_FAILED"
	ErrCodeSessionActive        = "SESSION_ACTIVE"
	ErrCodeSessionNotActive     = "SESSION_NOT_ACTIVE"
	ErrCodeInvalidParams        = "INVALID_PARAMS"
	ErrCodeResourceCreateFailed = "RESOURCE_CREATE_FAILED"
	ErrCodeNativeCallFailed     = "NATIVE_CALL_FAILED"
)

// NewError creates a new engine error.
func NewError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

package coach

import (
	"fmt"
)

// Error represents a coaching-client error.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code: %s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error wrapping.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes errors.
type ErrorType string

const (
	// ErrConfig is a configuration error (missing API key). Fatal before any
	// session starts.
	ErrConfig ErrorType = "config_error"
	// ErrPermission is a device-permission error (camera/mic denied).
	// Terminal for the current session attempt, recoverable at the UI level.
	ErrPermission ErrorType = "permission_error"
	// ErrConnection is a handshake failure or mid-session drop. Ends the
	// session; never auto-retried.
	ErrConnection ErrorType = "connection_error"
	// ErrValidation is a malformed remote payload (plan schema violation,
	// out-of-enum tool arguments).
	ErrValidation ErrorType = "validation_error"
	// ErrCodec is a corrupt audio payload. The affected segment is skipped.
	ErrCodec ErrorType = "codec_error"
)

// NewConfigError creates a configuration error.
func NewConfigError(message string) *Error {
	return &Error{Type: ErrConfig, Message: message}
}

// NewPermissionError creates a device-permission error.
func NewPermissionError(message string, cause error) *Error {
	return &Error{Type: ErrPermission, Message: message, Cause: cause}
}

// NewConnectionError creates a connection error.
func NewConnectionError(message string, cause error) *Error {
	return &Error{Type: ErrConnection, Message: message, Cause: cause}
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *Error {
	return &Error{Type: ErrValidation, Message: message}
}

// NewCodecError creates a codec error.
func NewCodecError(message string, cause error) *Error {
	return &Error{Type: ErrCodec, Message: message, Cause: cause}
}

// IsFatal returns true if the error aborts before session start.
func (e *Error) IsFatal() bool {
	return e.Type == ErrConfig
}

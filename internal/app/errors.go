package app

import "fmt"

// AppErrorType represents the type of application error.
type AppErrorType int

const (
	// GenerateFailed indicates a documentation run could not complete.
	GenerateFailed AppErrorType = iota
	// ConfigLoadFailed indicates the configuration could not be used.
	ConfigLoadFailed
	// PropertiesInitFailed indicates a properties file could not be scaffolded.
	PropertiesInitFailed
	// WatchFailed indicates watch mode could not start or stopped on an error.
	WatchFailed
)

// AppError represents an application-layer error.
type AppError struct {
	// Type is the error type.
	Type AppErrorType
	// Message is the error message.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError.
func NewAppError(errType AppErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewGenerateError creates a generate error.
func NewGenerateError(message string, cause error) *AppError {
	return NewAppError(GenerateFailed, message, cause)
}

// NewConfigLoadError creates a config load error.
func NewConfigLoadError(message string, cause error) *AppError {
	return NewAppError(ConfigLoadFailed, message, cause)
}

// NewPropertiesInitError creates a properties init error.
func NewPropertiesInitError(message string, cause error) *AppError {
	return NewAppError(PropertiesInitFailed, message, cause)
}

// NewWatchError creates a watch error.
func NewWatchError(message string, cause error) *AppError {
	return NewAppError(WatchFailed, message, cause)
}

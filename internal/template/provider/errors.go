package provider

import "fmt"

// ProviderErrorType represents the type of provider error.
type ProviderErrorType int

const (
	// ProviderInvalidPattern indicates a discovery or ignore pattern failed to compile
	// or points outside the base directory.
	ProviderInvalidPattern ProviderErrorType = iota
	// ProviderNotFound indicates the base directory does not exist.
	ProviderNotFound
	// ProviderReadFailed indicates the directory tree could not be walked.
	ProviderReadFailed
)

// String returns the string representation of the error type.
func (t ProviderErrorType) String() string {
	switch t {
	case ProviderInvalidPattern:
		return "InvalidPattern"
	case ProviderNotFound:
		return "NotFound"
	case ProviderReadFailed:
		return "ReadFailed"
	default:
		return "Unknown"
	}
}

// ProviderError represents a provider-specific error.
type ProviderError struct {
	// Type is the error type classification.
	Type ProviderErrorType
	// Message is the human-readable error message.
	Message string
	// Provider is the provider name (e.g., "local").
	Provider string
	// Target is the pattern or path that caused the error.
	Target string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s provider error [%s] for '%s': %s (caused by: %v)",
			e.Provider, e.Type.String(), e.Target, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s provider error [%s] for '%s': %s",
		e.Provider, e.Type.String(), e.Target, e.Message)
}

// Unwrap returns the underlying cause for error wrapping.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new ProviderError.
func NewProviderError(typ ProviderErrorType, provider, target, message string, cause error) *ProviderError {
	return &ProviderError{
		Type:     typ,
		Message:  message,
		Provider: provider,
		Target:   target,
		Cause:    cause,
	}
}

// NewInvalidPatternError creates an invalid pattern error.
func NewInvalidPatternError(provider, pattern, message string, cause error) *ProviderError {
	return NewProviderError(ProviderInvalidPattern, provider, pattern, message, cause)
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(provider, path string) *ProviderError {
	return NewProviderError(ProviderNotFound, provider, path, "base directory not found", nil)
}

// NewReadError creates a read failed error.
func NewReadError(provider, path string, cause error) *ProviderError {
	return NewProviderError(ProviderReadFailed, provider, path, "failed to read directory tree", cause)
}

package generator

import (
	"errors"
	"fmt"

	"github.com/tacogips/pipelinedoc/internal/template/model"
	"github.com/tacogips/pipelinedoc/internal/template/parser"
)

// GeneratorErrorType categorizes generator errors.
type GeneratorErrorType int

const (
	// GeneratorWriteFailed indicates a file write operation failed.
	GeneratorWriteFailed GeneratorErrorType = iota
	// GeneratorProcessFailed indicates a template could not be read or documented.
	GeneratorProcessFailed
	// GeneratorPathError indicates an invalid or unsafe path was encountered.
	GeneratorPathError
)

// GeneratorError represents generator-specific errors.
type GeneratorError struct {
	// Type categorizes the error.
	Type GeneratorErrorType
	// Message is the error message.
	Message string
	// File is the file path related to the error (if applicable).
	File string
	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *GeneratorError) Error() string {
	if e.File != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s (file: %s): %v", e.Message, e.File, e.Cause)
		}
		return fmt.Sprintf("%s (file: %s)", e.Message, e.File)
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}

// newGeneratorError creates a new GeneratorError.
func newGeneratorError(typ GeneratorErrorType, message, file string, cause error) *GeneratorError {
	return &GeneratorError{
		Type:    typ,
		Message: message,
		File:    file,
		Cause:   cause,
	}
}

// DocumentError reports that one template could not be documented. It never
// aborts the batch.
type DocumentError struct {
	// File is the template path.
	File string
	// Kind is the template kind when the template parsed before the
	// failure, else model.KindNone.
	Kind model.Kind
	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	var parseErr *parser.ParseError
	if errors.As(e.Cause, &parseErr) && parseErr.File != "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.File, e.Cause)
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *DocumentError) Unwrap() error {
	return e.Cause
}

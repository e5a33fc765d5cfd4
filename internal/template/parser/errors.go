package parser

import (
	"fmt"
	"regexp"
	"strconv"
)

// ParseErrorType represents the type of parsing error.
type ParseErrorType int

const (
	// InvalidYAML indicates the template text could not be decoded as YAML.
	InvalidYAML ParseErrorType = iota
)

// ParseError is returned when template text is not valid YAML.
type ParseError struct {
	// Type is the error type.
	Type ParseErrorType
	// Message is the error message.
	Message string
	// File is the template path, attached by callers that know it.
	File string
	// Line is the line reported by the YAML decoder (1-indexed, 0 if unknown).
	Line int
	// Cause is the underlying decoder error.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// WithFile returns a copy of the error carrying the template path.
func (e *ParseError) WithFile(file string) *ParseError {
	cp := *e
	cp.File = file
	return &cp
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// newParseErrorWithCause creates a ParseError from a decoder error.
func newParseErrorWithCause(typ ParseErrorType, message string, cause error) *ParseError {
	e := &ParseError{
		Type:    typ,
		Message: message,
		Cause:   cause,
	}
	if cause != nil {
		if m := yamlLinePattern.FindStringSubmatch(cause.Error()); m != nil {
			e.Line, _ = strconv.Atoi(m[1])
		}
	}
	return e
}

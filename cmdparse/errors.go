package cmdparse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents error categories produced by the engine.
// Categories drive suggestion logic and exit-code mapping (see ExitCode).
type ErrorType string

const (
	ErrorTypeUnknownCommand ErrorType = "unknown_command"
	ErrorTypeInvalidSection ErrorType = "invalid_section"
	ErrorTypeInvalidParam   ErrorType = "invalid_param"
	ErrorTypeInvalidFlagSet ErrorType = "invalid_flag_set"
	ErrorTypeInvalidCommand ErrorType = "invalid_command"
)

// ErrUnknownCommand matches any error of type ErrorTypeUnknownCommand via errors.Is.
var ErrUnknownCommand = &Error{Type: ErrorTypeUnknownCommand, Message: "unknown command"}

// Error is the engine's error type. Build-time misuse and unknown commands
// are both reported through it; ordinary section or command mismatches are
// not errors and never produce one.
type Error struct {
	Type        ErrorType
	Message     string
	Token       string // Offending token, if any
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *Error) Error() string {
	if len(e.Suggestions) == 0 {
		return e.Message
	}
	var builder strings.Builder
	builder.WriteString(e.Message)
	for _, suggestion := range e.Suggestions {
		builder.WriteString("\n  ")
		builder.WriteString(suggestion)
	}
	return builder.String()
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same category.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Type == e.Type
}

// Error builders for fluent API

// NewError creates a new Error with the given type and message
func NewError(typ ErrorType, message string) *Error {
	return &Error{
		Type:        typ,
		Message:     message,
		Suggestions: make([]string, 0),
	}
}

// newErrorf is NewError with formatting
func newErrorf(typ ErrorType, format string, args ...any) *Error {
	return NewError(typ, fmt.Sprintf(format, args...))
}

// WithSuggestion adds a suggestion to the error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithCause adds an underlying cause to the error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithToken records the token the error refers to
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// IsUnknownCommand reports whether err signals that no registered command
// matched the input.
func IsUnknownCommand(err error) bool {
	return errors.Is(err, ErrUnknownCommand)
}

// errorType extracts the category of an *Error anywhere in the chain.
func errorType(err error) (ErrorType, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Type, true
	}
	return "", false
}

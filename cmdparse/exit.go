package cmdparse

import (
	"errors"

	"github.com/RomanAgeev/CommandParser/middleware"
)

// ExitError is a sentinel used to request a specific exit code from inside handlers.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// Default exit codes
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitMisusageError   = 2
	ExitValidationError = 3
)

// ExitCode converts an error returned by Parse, Run or an action into a
// process exit code.
// Precedence:
//  1. ExitError (requested code)
//  2. Error category (unknown command, build-time misuse)
//  3. middleware validation errors
//  4. ExitGeneralError, which also covers recovered panics
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if typ, ok := errorType(err); ok {
		switch typ {
		case ErrorTypeUnknownCommand, ErrorTypeInvalidSection, ErrorTypeInvalidParam,
			ErrorTypeInvalidFlagSet, ErrorTypeInvalidCommand:
			return ExitMisusageError
		}
		return ExitGeneralError
	}

	var validationErr *middleware.ValidationError
	if errors.As(err, &validationErr) {
		return ExitValidationError
	}

	return ExitGeneralError
}

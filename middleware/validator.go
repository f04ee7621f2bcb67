package middleware

import (
	"errors"
	"fmt"
	"sort"
)

// ValidatorFunc represents a custom validation function run before the action.
//
// Integer and flag-set parameters that fail conversion still let their
// section match; the value is simply absent. Validators are where a program
// turns such absences, or combinations of sections, into hard errors.
type ValidatorFunc func(ctx Context) error

// NamedValidator pairs a validator with the name used in error reporting
type NamedValidator struct {
	Name string
	Fn   ValidatorFunc
}

// Custom wraps fn as a NamedValidator
func Custom(name string, fn ValidatorFunc) NamedValidator {
	return NamedValidator{Name: name, Fn: fn}
}

// Validate creates a middleware running validators in order before the action.
func Validate(validators ...NamedValidator) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			for _, v := range validators {
				if err := runValidator(ctx, v.Name, v.Fn); err != nil {
					return err
				}
			}
			return next(ctx)
		}
	}
}

// Validator creates a middleware that runs the validators registered through
// WithCustomValidators. They run in name order.
func Validator(options ...MiddlewareOption) Middleware {
	config := configure(options)

	names := make([]string, 0, len(config.CustomValidators))
	for name := range config.CustomValidators {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			for _, name := range names {
				if err := runValidator(ctx, name, config.CustomValidators[name]); err != nil {
					return err
				}
			}
			return next(ctx)
		}
	}
}

// runValidator normalizes validator failures to *ValidationError
func runValidator(ctx Context, name string, fn ValidatorFunc) error {
	err := fn(ctx)
	if err == nil {
		return nil
	}
	validationErr := &ValidationError{}
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return &ValidationError{
		Section: name,
		Message: "validation failed",
		Cause:   err,
	}
}

// RequirePresent fails when section matched but any of params is absent.
// Sections that did not match are not checked.
func RequirePresent(section string, params ...string) ValidatorFunc {
	return func(ctx Context) error {
		if !ctx.Has(section) {
			return nil
		}
		for _, param := range params {
			if !ctx.Present(section, param) {
				return &ValidationError{
					Section: section,
					Param:   param,
					Message: fmt.Sprintf("invalid or missing value for %s.%s", section, param),
				}
			}
		}
		return nil
	}
}

// RequireSections fails unless every named section matched
func RequireSections(sections ...string) ValidatorFunc {
	return func(ctx Context) error {
		for _, section := range sections {
			if !ctx.Has(section) {
				return &ValidationError{
					Section: section,
					Message: fmt.Sprintf("section %s is required", section),
				}
			}
		}
		return nil
	}
}

// MutuallyExclusive fails when more than one of the named sections matched
func MutuallyExclusive(sections ...string) ValidatorFunc {
	return func(ctx Context) error {
		var seen string
		for _, section := range sections {
			if !ctx.Has(section) {
				continue
			}
			if seen != "" {
				return &ValidationError{
					Section: section,
					Message: fmt.Sprintf("sections %s and %s cannot be used together", seen, section),
				}
			}
			seen = section
		}
		return nil
	}
}

// WithCustomValidators registers named validators for Validator
func WithCustomValidators(validators map[string]ValidatorFunc) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		for name, validator := range validators {
			config.CustomValidators[name] = validator
		}
	}
}

// NoopValidator creates a validator middleware that performs no validation
func NoopValidator() Middleware {
	return func(next ActionFunc) ActionFunc {
		return next
	}
}

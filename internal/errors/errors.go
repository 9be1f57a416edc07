// Package apperrors defines the application-level error types and the
// process exit codes they map to.
//
// Every type implements Unwrap where it carries a cause, so errors.Is and
// errors.As see through it. Domain packages keep their own sentinel errors;
// this package only classifies them at the edge of the program.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Process exit codes.
const (
	ExitSuccess       = 0   // Successful execution.
	ExitErrorGeneric  = 1   // Any error without a more specific code.
	ExitErrorTimeout  = 2   // The calculation deadline was reached.
	ExitErrorMismatch = 3   // Strategies disagreed on F(n).
	ExitErrorConfig   = 4   // Invalid flags, environment or config file.
	ExitErrorCanceled = 130 // Interrupted, e.g. by SIGINT.
)

// ConfigError reports invalid user configuration.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError wraps a failure of one strategy.
type CalculationError struct {
	// Algorithm is the display name of the failing strategy, if known.
	Algorithm string
	// N is the requested index.
	N     uint64
	Cause error
}

// NewCalculationError wraps cause with the algorithm and index that
// produced it.
func NewCalculationError(algorithm string, n uint64, cause error) error {
	return CalculationError{Algorithm: algorithm, N: n, Cause: cause}
}

func (e CalculationError) Error() string {
	if e.Algorithm == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s F(%d): %v", e.Algorithm, e.N, e.Cause)
}

func (e CalculationError) Unwrap() error { return e.Cause }

// MismatchError reports that strategies returned different values for the
// same index. Results maps each algorithm name to the decimal result it
// produced.
type MismatchError struct {
	N       uint64
	Results map[string]string
}

func (e MismatchError) Error() string {
	names := make([]string, 0, len(e.Results))
	for name := range e.Results {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("results for F(%d) differ between %s", e.N, strings.Join(names, ", "))
}

// ServerError wraps a failure of the HTTP server.
type ServerError struct {
	Message string
	Cause   error
}

func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a ServerError. cause may be nil.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// ValidationError reports an invalid request or configuration field.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// WrapError annotates err with a formatted message. It returns nil when err
// is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err stems from context cancellation or a
// deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	var (
		cfgErr      ConfigError
		mismatchErr MismatchError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &mismatchErr):
		return ExitErrorMismatch
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}

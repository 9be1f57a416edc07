package apperrors

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the escape codes used when reporting failures.
// It keeps this package free of a dependency on the ui package.
type ColorProvider interface {
	Warning() string
	Error() string
	Reset() string
}

// PlainColors is a ColorProvider without escape codes.
type PlainColors struct{}

func (PlainColors) Warning() string { return "" }
func (PlainColors) Error() string   { return "" }
func (PlainColors) Reset() string   { return "" }

// HandleCalculationError writes a one-line status for err to out and
// returns the matching exit code. duration, when positive, is the time spent
// before the failure. A nil colors uses PlainColors.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = PlainColors{}
	}

	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s%s%s", colors.Warning(), duration, colors.Reset())
	}

	code := ExitCode(err)
	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", suffix)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Warning(), suffix, colors.Reset())
	case ExitErrorMismatch:
		var mismatch MismatchError
		errors.As(err, &mismatch)
		fmt.Fprintf(out, "%sStatus: Mismatch. %v%s\n", colors.Error(), mismatch, colors.Reset())
	default:
		fmt.Fprintf(out, "Status: Failure. %v\n", err)
	}
	return code
}

// Package cli renders calculation progress and results on a terminal. It
// owns the spinner and progress bar shown while strategies run and the
// result sections printed once they finish.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"

	"github.com/agbru/fibbench/internal/bignum"
	"github.com/agbru/fibbench/internal/fibonacci"
	"github.com/agbru/fibbench/internal/ui"
)

const (
	// TruncationLimit is the digit count from which a displayed value is
	// shortened unless verbose output is requested.
	TruncationLimit = 100
	// DisplayEdges is the number of digits kept at each end of a shortened
	// value.
	DisplayEdges = 25
	// ProgressRefreshRate is the spinner and progress bar refresh period.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width of the progress bar in cells.
	ProgressBarWidth = 40
	// scientificDigits is the significant digit count of the scientific
	// notation line.
	scientificDigits = 7
)

// FormatExecutionDuration renders d with a unit suited to its magnitude.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "< 1µs"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}

func colorReset() string   { return ui.Current().Reset }
func colorRed() string     { return ui.Current().Error }
func colorGreen() string   { return ui.Current().Success }
func colorYellow() string  { return ui.Current().Warning }
func colorMagenta() string { return ui.Current().Info }
func colorCyan() string    { return ui.Current().Secondary }
func colorBold() string    { return ui.Current().Bold }

// Spinner is the terminal animation shown while strategies run.
type Spinner interface {
	Start()
	Stop()
	// UpdateSuffix sets the text shown after the animation.
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

// silentSpinner is used when the output is not an interactive terminal.
type silentSpinner struct{}

func (silentSpinner) Start() {}

func (silentSpinner) Stop() {}

func (silentSpinner) UpdateSuffix(string) {}

// newSpinner is replaced in tests.
var newSpinner = func(out io.Writer) Spinner {
	if f, ok := out.(*os.File); !ok || !ui.IsTerminal(f) {
		return silentSpinner{}
	}
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, spinner.WithWriter(out))
	return &realSpinner{s}
}

// ProgressState tracks the progress of each running strategy.
type ProgressState struct {
	progresses []float64
}

// NewProgressState tracks numCalculators strategies, all at zero.
func NewProgressState(numCalculators int) *ProgressState {
	if numCalculators < 0 {
		numCalculators = 0
	}
	return &ProgressState{progresses: make([]float64, numCalculators)}
}

// Update records value for the strategy at index. Out-of-range indices are
// ignored.
func (ps *ProgressState) Update(index int, value float64) {
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = value
	}
}

// CalculateAverage returns the mean progress in [0, 1].
func (ps *ProgressState) CalculateAverage() float64 {
	if len(ps.progresses) == 0 {
		return 0
	}
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	return total / float64(len(ps.progresses))
}

func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

func progressLabel(numCalculators int) string {
	if numCalculators > 1 {
		return "Avg progress"
	}
	return "Progress"
}

// DisplayProgress renders progress updates until progressChan is closed,
// then prints a final 100% line. It is meant to run in its own goroutine and
// calls wg.Done on return.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan fibonacci.ProgressUpdate, numCalculators int, out io.Writer) {
	defer wg.Done()
	if numCalculators <= 0 {
		for range progressChan {
		}
		return
	}

	state := NewProgressWithETA(numCalculators)
	label := progressLabel(numCalculators)
	s := newSpinner(out)
	s.Start()
	stopped := false
	defer func() {
		if !stopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				stopped = true
				fmt.Fprintf(out, "%s: %s\n", label, FormatProgressBarWithETA(1, time.Nanosecond, ProgressBarWidth))
				return
			}
			state.UpdateWithETA(update.CalculatorIndex, update.Value)
		case <-ticker.C:
			s.UpdateSuffix(fmt.Sprintf(" %s: %s", label,
				FormatProgressBarWithETA(state.CalculateAverage(), state.GetETA(), ProgressBarWidth)))
		}
	}
}

// DisplayResult prints the result of F(n). details adds timing and size
// metadata. concise adds the value itself, shortened unless verbose.
func DisplayResult(result bignum.Number, n uint64, duration time.Duration, verbose, details, concise bool, out io.Writer) {
	bits := result.BigInt().BitLen()
	fmt.Fprintf(out, "Result binary size: %s%s%s bits.\n", colorCyan(), humanize.Comma(int64(bits)), colorReset())

	if details {
		fmt.Fprintf(out, "\n%s--- Detailed result analysis ---%s\n", colorBold(), colorReset())
		fmt.Fprintf(out, "Calculation time       : %s%s%s\n", colorGreen(), FormatExecutionDuration(duration), colorReset())
		fmt.Fprintf(out, "Number of digits       : %s%s%s\n", colorCyan(), humanize.Comma(int64(result.Len())), colorReset())
		if result.Len() > scientificDigits {
			if sci, err := result.Scientific(scientificDigits); err == nil {
				fmt.Fprintf(out, "Scientific notation    : %s%s%s\n", colorCyan(), sci, colorReset())
			}
		}
	}

	if !concise {
		return
	}

	s := result.String()
	fmt.Fprintf(out, "\n%s--- Calculated value ---%s\n", colorBold(), colorReset())
	switch {
	case verbose:
		fmt.Fprintf(out, "F(%s%d%s) =\n%s%s%s\n", colorMagenta(), n, colorReset(), colorGreen(), groupDigits(s), colorReset())
	case len(s) > TruncationLimit:
		fmt.Fprintf(out, "F(%s%d%s) (truncated) = %s%s...%s%s\n",
			colorMagenta(), n, colorReset(),
			colorGreen(), s[:DisplayEdges], s[len(s)-DisplayEdges:], colorReset())
		fmt.Fprintf(out, "(Tip: use the %s-v%s option to display the full value)\n", colorYellow(), colorReset())
	default:
		fmt.Fprintf(out, "F(%s%d%s) = %s%s%s\n", colorMagenta(), n, colorReset(), colorGreen(), groupDigits(s), colorReset())
	}
}

// groupDigits inserts thousands separators into a decimal string of any
// length.
func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + (len(s)-1)/3)
	first := len(s) % 3
	if first == 0 {
		first = 3
	}
	b.WriteString(s[:first])
	for i := first; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

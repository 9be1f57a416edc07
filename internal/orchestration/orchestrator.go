// Package orchestration runs several Fibonacci strategies concurrently and
// compares their results.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/fibbench/internal/bignum"
	"github.com/agbru/fibbench/internal/cli"
	"github.com/agbru/fibbench/internal/config"
	apperrors "github.com/agbru/fibbench/internal/errors"
	"github.com/agbru/fibbench/internal/fibonacci"
	"github.com/agbru/fibbench/internal/ui"
)

// CalculationResult is the outcome of one strategy.
type CalculationResult struct {
	// Name is the display name of the strategy.
	Name string
	// Result is F(n). It is the zero Number when Err is set.
	Result bignum.Number
	// Duration is the wall time of the Calculate call.
	Duration time.Duration
	Err      error
}

// ProgressBufferMultiplier sizes the progress channel per calculator so that
// a slow display rarely blocks a calculation.
const ProgressBufferMultiplier = 5

// ExecuteCalculations runs every calculator on cfg.N concurrently, renders
// their progress to out and returns one result per calculator, in input
// order. Failures are reported in the results, never as an early abort.
func ExecuteCalculations(ctx context.Context, calculators []fibonacci.Calculator, cfg config.AppConfig, out io.Writer) []CalculationResult {
	results := make([]CalculationResult, len(calculators))
	progressChan := make(chan fibonacci.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	opts := cfg.ToCalculationOptions()
	g, gctx := errgroup.WithContext(ctx)
	for i, calc := range calculators {
		g.Go(func() error {
			start := time.Now()
			res, err := calc.Calculate(gctx, progressChan, i, cfg.N, opts)
			if err != nil {
				err = apperrors.NewCalculationError(calc.Name(), cfg.N, err)
			}
			results[i] = CalculationResult{Name: calc.Name(), Result: res, Duration: time.Since(start), Err: err}
			return nil
		})
	}

	// Every goroutine returns nil so that one failure does not cancel the
	// others through gctx.
	g.Wait()
	close(progressChan)
	displayWg.Wait()
	return results
}

// FindBestResult returns the fastest successful result, or nil.
func FindBestResult(results []CalculationResult) *CalculationResult {
	var best *CalculationResult
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		if best == nil || results[i].Duration < best.Duration {
			best = &results[i]
		}
	}
	return best
}

// CompareResults checks that every successful result holds the same value.
// It returns an apperrors.MismatchError listing each strategy's value when
// they differ.
func CompareResults(n uint64, results []CalculationResult) error {
	var reference *bignum.Number
	mismatch := false
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		if reference == nil {
			reference = &results[i].Result
		} else if !results[i].Result.Equal(*reference) {
			mismatch = true
		}
	}
	if !mismatch {
		return nil
	}
	values := make(map[string]string)
	for _, r := range results {
		if r.Err == nil {
			values[r.Name] = r.Result.String()
		}
	}
	return apperrors.MismatchError{N: n, Results: values}
}

// AnalyzeComparisonResults prints a summary table of results sorted with
// successes first, fastest first, then the shared value. It returns the
// process exit code: a mismatch or the failure of every strategy is an
// error, a partial failure is not.
func AnalyzeComparisonResults(results []CalculationResult, cfg config.AppConfig, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	theme := ui.Current()
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", theme.Paint(theme.Bold, "Algorithm"), theme.Paint(theme.Bold, "Duration"), theme.Paint(theme.Bold, "Status"))

	var firstErr error
	for _, res := range results {
		status := theme.Paint(theme.Success, "✅ Success")
		if res.Err != nil {
			status = theme.Paint(theme.Error, fmt.Sprintf("❌ Failure (%v)", res.Err))
			if firstErr == nil {
				firstErr = res.Err
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			theme.Paint(theme.Primary, res.Name),
			theme.Paint(theme.Warning, cli.FormatExecutionDuration(res.Duration)),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush the summary: %v\n", err)
	}

	best := FindBestResult(results)
	if best == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the calculation.\n")
		return apperrors.HandleCalculationError(firstErr, 0, out, cli.CLIColorProvider{})
	}

	if err := CompareResults(cfg.N, results); err != nil {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! An inconsistency was detected between the results of the algorithms.\n")
		return apperrors.HandleCalculationError(err, 0, out, cli.CLIColorProvider{})
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	cli.DisplayResult(best.Result, cfg.N, best.Duration, cfg.Verbose, cfg.Details, cfg.Concise, out)
	return apperrors.ExitSuccess
}

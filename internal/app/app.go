package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/afero"

	"github.com/agbru/fibbench/internal/cli"
	"github.com/agbru/fibbench/internal/config"
	"github.com/agbru/fibbench/internal/device"
	apperrors "github.com/agbru/fibbench/internal/errors"
	"github.com/agbru/fibbench/internal/fibonacci"
	"github.com/agbru/fibbench/internal/logging"
	"github.com/agbru/fibbench/internal/orchestration"
	"github.com/agbru/fibbench/internal/server"
	"github.com/agbru/fibbench/internal/sweep"
	"github.com/agbru/fibbench/internal/ui"
	"github.com/agbru/fibbench/pkg/models"
)

// Application is one fibbench invocation: a parsed configuration and the
// collaborators the selected mode runs against.
type Application struct {
	Config config.AppConfig
	// Factory provides the Fibonacci calculators.
	Factory fibonacci.CalculatorFactory
	// ErrWriter receives diagnostics and logs.
	ErrWriter io.Writer
	// Fs receives output files and sweep reports.
	Fs afero.Fs
	// Logger is used by the server and sweep modes.
	Logger logging.Logger
}

// New parses args (program name first) and returns a ready Application.
// Parse and validation errors are returned after being reported on
// errWriter.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := fibonacci.GlobalFactory()

	programName := "fibbench"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}
	if err := logging.SetGlobalLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	return &Application{
		Config:    applyAdaptiveThreshold(cfg, runtime.NumCPU()),
		Factory:   factory,
		ErrWriter: errWriter,
		Fs:        afero.NewOsFs(),
		Logger:    logging.NewLogger(errWriter, "fibbench"),
	}, nil
}

// applyAdaptiveThreshold disables parallel multiplication on a single CPU
// unless the threshold was set explicitly.
func applyAdaptiveThreshold(cfg config.AppConfig, numCPU int) config.AppConfig {
	if numCPU <= 1 && cfg.Threshold == config.DefaultThreshold {
		cfg.Threshold = -1
	}
	return cfg
}

// Run executes the configured mode and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)

	switch {
	case a.Config.ServerMode:
		return a.runServer(ctx)
	case a.Config.Sweep:
		return a.runSweep(ctx, out)
	}
	return a.runCalculate(ctx, out)
}

func (a *Application) logger() logging.Logger {
	if a.Logger == nil {
		return logging.NewNopLogger()
	}
	return a.Logger
}

func (a *Application) fs() afero.Fs {
	if a.Fs == nil {
		return afero.NewOsFs()
	}
	return a.Fs
}

// runServer serves the HTTP API until ctx is canceled or a termination
// signal arrives.
func (a *Application) runServer(ctx context.Context) int {
	ctx, stop := SetupSignals(ctx)
	defer stop()

	srv := server.NewServer(a.Factory, a.Config, server.WithLogger(a.logger()))
	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// factoryProvider exposes a CalculatorFactory to the device, which selects
// strategies by Algorithm rather than by name.
type factoryProvider struct {
	factory fibonacci.CalculatorFactory
}

func (p factoryProvider) ForAlgorithm(algo fibonacci.Algorithm) (fibonacci.Calculator, error) {
	if !algo.Valid() {
		return nil, fmt.Errorf("%w: %d", fibonacci.ErrUnknownAlgorithm, uint8(algo))
	}
	return p.factory.Get(algo.String())
}

// runSweep benchmarks the selected strategies through the device and
// renders the measurements.
func (a *Application) runSweep(ctx context.Context, out io.Writer) int {
	ctx, lifecycle := SetupLifecycle(ctx, a.Config.Timeout)
	defer lifecycle.Cleanup()

	var algos []fibonacci.Algorithm
	if a.Config.Algo != "all" {
		algo, err := fibonacci.ParseAlgorithm(a.Config.Algo)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		algos = []fibonacci.Algorithm{algo}
	}

	dev := device.New(device.Options{
		MaxIndex:    a.Config.MaxIndex,
		Provider:    factoryProvider{a.Factory},
		Logger:      a.logger(),
		Calculation: a.Config.ToCalculationOptions(),
	})
	runner := sweep.NewRunner(dev, sweep.Options{
		Algorithms: algos,
		Repeat:     a.Config.SweepRepeat,
		Logger:     a.logger(),
	})

	points, err := runner.Run(ctx)
	if err != nil {
		return apperrors.HandleCalculationError(err, 0, out, cli.CLIColorProvider{})
	}
	if err := sweep.Render(out, a.Config.SweepFormat, points, runner.Algorithms()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error rendering sweep: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	if a.Config.SweepReport != "" {
		report := sweep.NewReport(points, a.Config.MaxIndex, a.Config.SweepRepeat, runner.Algorithms())
		if err := sweep.SaveReport(a.fs(), a.Config.SweepReport, report); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving sweep report: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		a.logger().Info("sweep report saved",
			logging.String("path", a.Config.SweepReport),
			logging.String("id", report.ID),
		)
	}
	return apperrors.ExitSuccess
}

// runCalculate runs the selected strategies on N, compares them and prints
// the result.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	ctx, lifecycle := SetupLifecycle(ctx, a.Config.Timeout)
	defer lifecycle.Cleanup()

	calculators := cli.GetCalculatorsToRun(a.Config, a.Factory)
	if len(calculators) == 0 {
		fmt.Fprintf(a.ErrWriter, "No calculator available for algorithm %q\n", a.Config.Algo)
		return apperrors.ExitErrorConfig
	}

	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculators, out)
	}

	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}
	results := orchestration.ExecuteCalculations(ctx, calculators, a.Config, progressOut)

	if a.Config.JSONOutput {
		return printJSONResults(results, a.Config.N, out)
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		HexOutput:  a.Config.HexOutput,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		Concise:    a.Config.Concise,
	}
	return a.analyzeResultsWithOutput(results, outputCfg, out)
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.CalculationResult, outputCfg cli.OutputConfig, out io.Writer) int {
	best := orchestration.FindBestResult(results)

	if outputCfg.Quiet {
		if best == nil {
			return apperrors.HandleCalculationError(results[0].Err, 0, a.ErrWriter, apperrors.PlainColors{})
		}
		if err := orchestration.CompareResults(a.Config.N, results); err != nil {
			return apperrors.HandleCalculationError(err, 0, a.ErrWriter, apperrors.PlainColors{})
		}
		cli.DisplayQuietResult(out, best.Result, outputCfg.HexOutput)
		if err := a.saveResult(best, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}

	exitCode := orchestration.AnalyzeComparisonResults(results, a.Config, out)
	if exitCode != apperrors.ExitSuccess {
		return exitCode
	}
	// AnalyzeComparisonResults sorts results, so best is looked up again.
	best = orchestration.FindBestResult(results)
	if outputCfg.HexOutput {
		cli.DisplayHex(out, best.Result, a.Config.N, outputCfg.Verbose)
	}
	if outputCfg.OutputFile != "" {
		if err := a.saveResult(best, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		cli.DisplaySaved(out, outputCfg.OutputFile)
	}
	return exitCode
}

func (a *Application) saveResult(res *orchestration.CalculationResult, cfg cli.OutputConfig) error {
	if err := cli.WriteResultToFile(a.fs(), res.Result, a.Config.N, res.Duration, res.Name, cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return err
	}
	return nil
}

// printJSONResults writes one models.CalculationResult per strategy as an
// indented JSON array. A mismatch between strategies is still an error.
func printJSONResults(results []orchestration.CalculationResult, n uint64, out io.Writer) int {
	output := make([]models.CalculationResult, len(results))
	failures := 0
	for i, res := range results {
		output[i] = models.CalculationResult{
			Algorithm: res.Name,
			Duration:  res.Duration.String(),
		}
		if res.Err != nil {
			output[i].Error = res.Err.Error()
			failures++
		} else {
			output[i].Result = res.Result.String()
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return apperrors.ExitErrorGeneric
	}
	if failures == len(results) && len(results) > 0 {
		return apperrors.ExitCode(results[0].Err)
	}
	return apperrors.ExitCode(orchestration.CompareResults(n, results))
}

// IsHelpError reports whether err comes from -h or -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// Package config parses and validates the fibbench configuration.
//
// Values come from four layers, highest priority first: command-line flags,
// FIBBENCH_* environment variables, an optional config file (-config), and
// the defaults below.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/afero"

	apperrors "github.com/agbru/fibbench/internal/errors"
	"github.com/agbru/fibbench/internal/fibonacci"
	"github.com/agbru/fibbench/internal/logging"
	"github.com/agbru/fibbench/internal/sweep"
)

// EnvPrefix is the prefix of every environment variable read by fibbench.
const EnvPrefix = "FIBBENCH_"

// Default configuration values.
const (
	DefaultN           uint64 = 100
	DefaultMaxIndex           = fibonacci.DefaultMaxIndex
	DefaultTimeout            = time.Minute
	DefaultPort               = "8080"
	DefaultAlgo               = "all"
	DefaultThreshold          = fibonacci.DefaultParallelThreshold
	DefaultSweepFormat        = "table"
	DefaultSweepRepeat        = 1
	DefaultLogLevel           = "info"
)

// Sweep output formats.
const (
	SweepFormatTable = "table"
	SweepFormatCSV   = "csv"
)

// AppConfig holds every setting of a fibbench run.
type AppConfig struct {
	// N is the index of the Fibonacci number to calculate.
	N uint64
	// Algo is "all" or one registered algorithm name.
	Algo string
	// MaxIndex bounds N, device offsets and the sweep range.
	MaxIndex uint64
	// Timeout bounds a calculation run.
	Timeout time.Duration
	// Threshold is the digit length from which doubling steps multiply in
	// parallel. A negative value disables parallelism.
	Threshold int

	// Verbose prints the full value instead of a truncated one.
	Verbose bool
	// Details prints performance details and result metadata.
	Details bool
	// Concise prints the calculated value section.
	Concise bool
	// JSONOutput prints results as JSON.
	JSONOutput bool
	// HexOutput also prints the result in hexadecimal.
	HexOutput bool
	// Quiet prints only the result.
	Quiet bool
	// OutputFile, when set, receives the result.
	OutputFile string
	// NoColor disables colors. NO_COLOR and non-terminal outputs do too.
	NoColor bool

	// ServerMode starts the HTTP API.
	ServerMode bool
	// Port is the HTTP listen port.
	Port string

	// Sweep runs the device benchmark over k = 0..MaxIndex.
	Sweep bool
	// SweepFormat is "table" or "csv".
	SweepFormat string
	// SweepRepeat is the number of reads per point; the minimum is kept.
	SweepRepeat int
	// SweepReport, when set, receives the sweep as a JSON report.
	SweepReport string

	// LogLevel is the minimum zerolog level: debug, info, warn or error.
	LogLevel string

	// ConfigFile is the optional config file that was loaded.
	ConfigFile string
}

// ToCalculationOptions converts the configuration to calculator options.
func (c AppConfig) ToCalculationOptions() fibonacci.Options {
	return fibonacci.Options{
		MaxIndex:          c.MaxIndex,
		ParallelThreshold: c.Threshold,
	}
}

// Validate checks the semantic consistency of the configuration.
// availableAlgos lists the names accepted by -algo besides "all".
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.MaxIndex == 0 {
		return apperrors.NewConfigError("max index must be positive")
	}
	if c.MaxIndex > fibonacci.MaxWindowIndex {
		return apperrors.NewConfigError("max index %d exceeds the 32-bit doubling window (max %d)", c.MaxIndex, uint64(fibonacci.MaxWindowIndex))
	}
	// -n only drives calculate mode; the sweep covers 0..MaxIndex and the
	// server takes n per request.
	if !c.Sweep && !c.ServerMode && c.N > c.MaxIndex {
		return apperrors.NewConfigError("n=%d exceeds max index %d", c.N, c.MaxIndex)
	}
	if c.Sweep && c.MaxIndex > sweep.MaxSweepIndex {
		return apperrors.NewConfigError("sweep max index %d exceeds %d", c.MaxIndex, uint64(sweep.MaxSweepIndex))
	}
	if c.Algo != "all" && !contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	if c.SweepFormat != SweepFormatTable && c.SweepFormat != SweepFormatCSV {
		return apperrors.NewConfigError("unknown sweep format %q (want %s or %s)", c.SweepFormat, SweepFormatTable, SweepFormatCSV)
	}
	if c.SweepRepeat < 1 {
		return apperrors.NewConfigError("sweep repeat must be at least 1, got %d", c.SweepRepeat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if c.ServerMode && c.Port == "" {
		return apperrors.NewConfigError("server mode requires a port")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ParseConfig parses args (without the program name) into an AppConfig,
// applies environment and config-file values for flags that were not given,
// and validates the result. Parse errors and usage go to errorWriter.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	return parseConfig(afero.NewOsFs(), programName, args, errorWriter, availableAlgos)
}

func parseConfig(fsys afero.Fs, programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Algorithm to use: 'all' (default) or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	fs.Uint64Var(&config.N, "n", DefaultN, "Index n of the Fibonacci number to calculate.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.Uint64Var(&config.MaxIndex, "max-index", DefaultMaxIndex, "Largest index accepted by the calculators, the device and the sweep.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the calculation.")
	fs.IntVar(&config.Threshold, "threshold", DefaultThreshold, "Digit length from which doubling steps multiply in parallel (negative to disable).")
	fs.BoolVar(&config.Verbose, "v", false, "Display the full value of the result.")
	fs.BoolVar(&config.Details, "d", false, "Display performance details and result metadata.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.BoolVar(&config.Concise, "calculate", false, "Display the calculated value.")
	fs.BoolVar(&config.Concise, "c", false, "Display the calculated value (shorthand).")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.HexOutput, "hex", false, "Display result in hexadecimal format.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.StringVar(&config.OutputFile, "output", "", "Output file path for the result.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR).")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.BoolVar(&config.Sweep, "sweep", false, "Benchmark every algorithm through the device for k = 0..max-index.")
	fs.StringVar(&config.SweepFormat, "sweep-format", DefaultSweepFormat, "Sweep output format: table or csv.")
	fs.IntVar(&config.SweepRepeat, "sweep-repeat", DefaultSweepRepeat, "Reads per sweep point; the fastest is kept.")
	fs.StringVar(&config.SweepReport, "sweep-report", "", "Save the sweep as a JSON report to this path.")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn or error.")
	fs.StringVar(&config.ConfigFile, "config", "", "Path to a YAML, JSON or TOML config file.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	if err := applyExternalSources(fsys, fs, &config); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		return AppConfig{}, err
	}

	config.Algo = strings.ToLower(strings.TrimSpace(config.Algo))
	config.SweepFormat = strings.ToLower(config.SweepFormat)
	config.LogLevel = strings.ToLower(strings.TrimSpace(config.LogLevel))
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// IsHelp reports whether err is the result of -h or -help.
func IsHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

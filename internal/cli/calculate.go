package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/agbru/fibbench/internal/config"
	"github.com/agbru/fibbench/internal/fibonacci"
)

// GetCalculatorsToRun returns the calculators selected by cfg.Algo, in the
// factory's sorted order for "all". It returns nil for an unknown name.
func GetCalculatorsToRun(cfg config.AppConfig, factory fibonacci.CalculatorFactory) []fibonacci.Calculator {
	if cfg.Algo == "all" {
		keys := factory.List()
		calculators := make([]fibonacci.Calculator, 0, len(keys))
		for _, k := range keys {
			if calc, err := factory.Get(k); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(cfg.Algo); err == nil {
		return []fibonacci.Calculator{calc}
	}
	return nil
}

// PrintExecutionConfig describes the run about to start.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Calculating %sF(%d)%s with a timeout of %s%s%s (max index %d).\n",
		colorMagenta(), cfg.N, colorReset(), colorYellow(), cfg.Timeout, colorReset(), cfg.MaxIndex)
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, %s/%s.\n",
		colorCyan(), runtime.NumCPU(), colorReset(), colorCyan(), runtime.Version(), colorReset(),
		runtime.GOOS, runtime.GOARCH)
	if features := CPUFeatures(); len(features) > 0 {
		fmt.Fprintf(out, "CPU features: %s%s%s.\n", colorCyan(), strings.Join(features, " "), colorReset())
	}
	threshold := "disabled"
	if cfg.Threshold >= 0 {
		threshold = fmt.Sprintf("%d digits", cfg.Threshold)
	}
	fmt.Fprintf(out, "Parallel multiplication threshold: %s%s%s.\n", colorCyan(), threshold, colorReset())
}

// CPUFeatures lists the instruction set extensions relevant to digit
// arithmetic that the host supports.
func CPUFeatures() []string {
	var features []string
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasSSE42, "sse4.2")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasBMI2, "bmi2")
		add(cpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasSVE, "sve")
	}
	return features
}

// PrintExecutionMode announces a single run or a comparison.
func PrintExecutionMode(calculators []fibonacci.Calculator, out io.Writer) {
	var mode string
	switch len(calculators) {
	case 0:
		mode = "No algorithm selected"
	case 1:
		mode = fmt.Sprintf("Single calculation with the %s%s%s algorithm", colorGreen(), calculators[0].Name(), colorReset())
	default:
		mode = "Parallel comparison of all algorithms"
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", mode)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// CLIColorProvider feeds the current theme to apperrors.HandleCalculationError.
type CLIColorProvider struct{}

func (CLIColorProvider) Warning() string { return colorYellow() }

func (CLIColorProvider) Error() string { return colorRed() }

func (CLIColorProvider) Reset() string { return colorReset() }

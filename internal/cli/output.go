package cli

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/agbru/fibbench/internal/bignum"
)

// hexEdges is the number of hex digits kept at each end of a shortened
// hexadecimal value.
const hexEdges = 40

// OutputConfig selects how a result is presented.
type OutputConfig struct {
	// OutputFile receives the result when not empty.
	OutputFile string
	HexOutput  bool
	// Quiet prints the bare value only.
	Quiet   bool
	Verbose bool
	Concise bool
}

// FormatHex renders result as 0x-prefixed lowercase hexadecimal.
func FormatHex(result bignum.Number) string {
	return "0x" + result.BigInt().Text(16)
}

// WriteResultToFile saves result with a commented header to
// config.OutputFile on fsys, creating parent directories as needed. It does
// nothing when no output file is configured.
func WriteResultToFile(fsys afero.Fs, result bignum.Number, n uint64, duration time.Duration, algo string, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}
	if dir := filepath.Dir(config.OutputFile); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Fibonacci Calculation Result\n")
	fmt.Fprintf(&buf, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "# Algorithm: %s\n", algo)
	fmt.Fprintf(&buf, "# Duration: %s\n", duration)
	fmt.Fprintf(&buf, "# N: %d\n", n)
	fmt.Fprintf(&buf, "# Bits: %d\n", result.BigInt().BitLen())
	fmt.Fprintf(&buf, "# Digits: %d\n\n", result.Len())
	if config.HexOutput {
		fmt.Fprintf(&buf, "F(%d) [hex] =\n%s\n", n, FormatHex(result))
	} else {
		fmt.Fprintf(&buf, "F(%d) =\n%s\n", n, result)
	}

	if err := afero.WriteFile(fsys, config.OutputFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// FormatQuietResult returns the single-line form of result used by quiet
// mode.
func FormatQuietResult(result bignum.Number, hexOutput bool) string {
	if hexOutput {
		return FormatHex(result)
	}
	return result.String()
}

// DisplayQuietResult prints the single-line form of result.
func DisplayQuietResult(out io.Writer, result bignum.Number, hexOutput bool) {
	fmt.Fprintln(out, FormatQuietResult(result, hexOutput))
}

// DisplayHex prints the hexadecimal section, shortened unless verbose.
func DisplayHex(out io.Writer, result bignum.Number, n uint64, verbose bool) {
	hex := result.BigInt().Text(16)
	fmt.Fprintf(out, "\n%s--- Hexadecimal Format ---%s\n", colorBold(), colorReset())
	if len(hex) > 2*hexEdges+20 && !verbose {
		hex = hex[:hexEdges] + "..." + hex[len(hex)-hexEdges:]
	}
	fmt.Fprintf(out, "F(%s%d%s) [hex] = %s0x%s%s\n", colorMagenta(), n, colorReset(), colorGreen(), hex, colorReset())
}

// DisplaySaved confirms that the result was written to path.
func DisplaySaved(out io.Writer, path string) {
	fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n", colorGreen(), colorCyan(), path, colorReset())
}

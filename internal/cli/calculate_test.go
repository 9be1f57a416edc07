package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/fibbench/internal/config"
	"github.com/agbru/fibbench/internal/fibonacci"
	"github.com/agbru/fibbench/internal/testutil"
)

func TestGetCalculatorsToRun(t *testing.T) {
	t.Parallel()
	factory := fibonacci.NewDefaultFactory()

	tests := []struct {
		algo string
		want []string
	}{
		{"all", []string{"Fast Doubling (32-bit window)", "Fast Doubling (CLZ)", "Linear DP"}},
		{"dp", []string{"Linear DP"}},
		{"doubling-clz", []string{"Fast Doubling (CLZ)"}},
		{"matrix", nil},
	}
	for _, tt := range tests {
		calcs := GetCalculatorsToRun(config.AppConfig{Algo: tt.algo}, factory)
		var names []string
		for _, c := range calcs {
			names = append(names, c.Name())
		}
		if strings.Join(names, ",") != strings.Join(tt.want, ",") {
			t.Errorf("GetCalculatorsToRun(%q) = %v, want %v", tt.algo, names, tt.want)
		}
	}
}

func TestPrintExecutionConfig(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintExecutionConfig(config.AppConfig{N: 92, MaxIndex: 150, Timeout: time.Minute, Threshold: -1}, &buf)
	out := testutil.StripAnsiCodes(buf.String())
	for _, want := range []string{"F(92)", "timeout of 1m0s", "max index 150", "logical processors", "threshold: disabled"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	buf.Reset()
	PrintExecutionConfig(config.AppConfig{Threshold: 2000, Timeout: time.Second}, &buf)
	if !strings.Contains(buf.String(), "2000 digits") {
		t.Errorf("threshold not shown: %s", buf.String())
	}
}

func TestCPUFeatures(t *testing.T) {
	t.Parallel()
	for _, f := range CPUFeatures() {
		if f == "" || strings.ContainsAny(f, " \t") {
			t.Errorf("malformed feature %q", f)
		}
	}
}

func TestPrintExecutionMode(t *testing.T) {
	t.Parallel()
	one := []fibonacci.Calculator{&fibonacci.MockCalculator{CalcName: "Linear DP"}}
	two := append(one, &fibonacci.MockCalculator{})

	tests := []struct {
		calcs []fibonacci.Calculator
		want  string
	}{
		{nil, "No algorithm selected"},
		{one, "Single calculation with the Linear DP algorithm"},
		{two, "Parallel comparison of all algorithms"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		PrintExecutionMode(tt.calcs, &buf)
		if out := testutil.StripAnsiCodes(buf.String()); !strings.Contains(out, tt.want) {
			t.Errorf("got %q, want %q", out, tt.want)
		}
	}
}

func TestCLIColorProvider(t *testing.T) {
	t.Parallel()
	var p CLIColorProvider
	if p.Warning()+p.Error()+p.Reset() != "" {
		t.Error("the no-color theme must yield empty codes")
	}
}

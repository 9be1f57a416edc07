package config

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	apperrors "github.com/agbru/fibbench/internal/errors"
	"github.com/agbru/fibbench/internal/sweep"
)

var availableAlgos = []string{"doubling", "doubling-clz", "dp"}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(afero.NewMemMapFs(), "fibbench", nil, io.Discard, availableAlgos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.N != DefaultN || cfg.Algo != "all" || cfg.MaxIndex != 150 {
		t.Errorf("defaults: N=%d Algo=%q MaxIndex=%d", cfg.N, cfg.Algo, cfg.MaxIndex)
	}
	if cfg.Timeout != DefaultTimeout || cfg.Port != DefaultPort {
		t.Errorf("defaults: Timeout=%v Port=%q", cfg.Timeout, cfg.Port)
	}
	if cfg.SweepFormat != SweepFormatTable || cfg.SweepRepeat != 1 {
		t.Errorf("defaults: SweepFormat=%q SweepRepeat=%d", cfg.SweepFormat, cfg.SweepRepeat)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("defaults: LogLevel=%q", cfg.LogLevel)
	}
}

func TestParseConfig_Flags(t *testing.T) {
	t.Parallel()
	args := []string{
		"-n", "92", "-algo", "Doubling-CLZ", "-max-index", "1000", "-v", "-d", "-c",
		"-timeout", "10s", "-threshold", "-1", "-server", "-port", "9090",
		"-sweep", "-sweep-format", "CSV", "-sweep-repeat", "3", "-sweep-report", "r.json",
		"-q", "-o", "out.txt", "-hex", "-json", "-no-color", "-log-level", " DEBUG",
	}
	cfg, err := parseConfig(afero.NewMemMapFs(), "fibbench", args, io.Discard, availableAlgos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := AppConfig{
		N: 92, Algo: "doubling-clz", MaxIndex: 1000, Timeout: 10 * time.Second, Threshold: -1,
		Verbose: true, Details: true, Concise: true, JSONOutput: true, HexOutput: true,
		Quiet: true, OutputFile: "out.txt", NoColor: true, ServerMode: true, Port: "9090",
		Sweep: true, SweepFormat: "csv", SweepRepeat: 3, SweepReport: "r.json",
		LogLevel: "debug",
	}
	if cfg != want {
		t.Errorf("got  %+v\nwant %+v", cfg, want)
	}
}

func TestParseConfig_Environment(t *testing.T) {
	env := map[string]string{
		"FIBBENCH_N":            "120",
		"FIBBENCH_ALGO":         "dp",
		"FIBBENCH_MAX_INDEX":    "500",
		"FIBBENCH_TIMEOUT":      "2m",
		"FIBBENCH_THRESHOLD":    "64",
		"FIBBENCH_VERBOSE":      "yes",
		"FIBBENCH_DETAILS":      "1",
		"FIBBENCH_QUIET":        "true",
		"FIBBENCH_OUTPUT":       "env.txt",
		"FIBBENCH_PORT":         "3000",
		"FIBBENCH_SWEEP_FORMAT": "csv",
		"FIBBENCH_SWEEP_REPEAT": "5",
		"FIBBENCH_LOG_LEVEL":    "warn",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := parseConfig(afero.NewMemMapFs(), "fibbench", nil, io.Discard, availableAlgos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.N != 120 || cfg.Algo != "dp" || cfg.MaxIndex != 500 || cfg.Timeout != 2*time.Minute || cfg.Threshold != 64 {
		t.Errorf("numeric/string overrides not applied: %+v", cfg)
	}
	if !cfg.Verbose || !cfg.Details || !cfg.Quiet {
		t.Errorf("boolean overrides not applied: %+v", cfg)
	}
	if cfg.OutputFile != "env.txt" || cfg.Port != "3000" || cfg.SweepFormat != "csv" || cfg.SweepRepeat != 5 || cfg.LogLevel != "warn" {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	cfg, err = parseConfig(afero.NewMemMapFs(), "fibbench", []string{"-n", "7", "-q=false"}, io.Discard, availableAlgos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.N != 7 {
		t.Errorf("flag must win over environment: N=%d", cfg.N)
	}
	if cfg.Quiet {
		t.Error("-q=false must win over FIBBENCH_QUIET")
	}
}

func TestParseConfig_ConfigFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	yaml := "n: 90\nalgo: doubling\nmax-index: 200\nsweep-repeat: 2\nhex: true\ntimeout: 30s\n"
	if err := afero.WriteFile(fsys, "/etc/fibbench.yaml", []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FIBBENCH_SWEEP_REPEAT", "4")

	cfg, err := parseConfig(fsys, "fibbench", []string{"-config", "/etc/fibbench.yaml", "-algo", "dp"}, io.Discard, availableAlgos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.N != 90 || cfg.MaxIndex != 200 || !cfg.HexOutput || cfg.Timeout != 30*time.Second {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Algo != "dp" {
		t.Errorf("flag must win over file: Algo=%q", cfg.Algo)
	}
	if cfg.SweepRepeat != 4 {
		t.Errorf("environment must win over file: SweepRepeat=%d", cfg.SweepRepeat)
	}
	if cfg.ConfigFile != "/etc/fibbench.yaml" {
		t.Errorf("ConfigFile = %q", cfg.ConfigFile)
	}
}

func TestParseConfig_ConfigFileFromEnvironment(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/cfg.json", []byte(`{"n": 42}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FIBBENCH_CONFIG", "/cfg.json")

	cfg, err := parseConfig(fsys, "fibbench", nil, io.Discard, availableAlgos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.N != 42 {
		t.Errorf("N = %d, want 42", cfg.N)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		args       []string
		wantConfig bool
	}{
		{"unknown flag", []string{"-unknown"}, false},
		{"invalid algorithm", []string{"-algo", "matrix"}, true},
		{"n above max index", []string{"-n", "151"}, true},
		{"missing config file", []string{"-config", "/nope.yaml"}, true},
		{"bad sweep format", []string{"-sweep-format", "xml"}, true},
		{"bad log level", []string{"-log-level", "loud"}, true},
		{"sweep beyond cap", []string{"-sweep", "-max-index", "100001"}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var stderr bytes.Buffer
			_, err := parseConfig(afero.NewMemMapFs(), "fibbench", tt.args, &stderr, availableAlgos)
			if err == nil {
				t.Fatal("expected an error")
			}
			var cfgErr apperrors.ConfigError
			if got := errors.As(err, &cfgErr); got != tt.wantConfig {
				t.Errorf("errors.As(ConfigError) = %v, want %v (err: %v)", got, tt.wantConfig, err)
			}
			if stderr.Len() == 0 {
				t.Error("nothing was written to the error writer")
			}
		})
	}
}

func TestParseConfig_NIgnoredOutsideCalculate(t *testing.T) {
	t.Parallel()
	for _, mode := range []string{"-sweep", "-server"} {
		cfg, err := parseConfig(afero.NewMemMapFs(), "fibbench", []string{mode, "-max-index", "10"}, io.Discard, availableAlgos)
		if err != nil {
			t.Errorf("%s -max-index 10: unexpected error: %v", mode, err)
			continue
		}
		if cfg.N != DefaultN || cfg.MaxIndex != 10 {
			t.Errorf("%s: N=%d MaxIndex=%d", mode, cfg.N, cfg.MaxIndex)
		}
	}
}

func TestParseConfig_InvalidEnvironmentValue(t *testing.T) {
	t.Setenv("FIBBENCH_N", "many")
	_, err := parseConfig(afero.NewMemMapFs(), "fibbench", nil, io.Discard, availableAlgos)
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want ConfigError", err)
	}
}

func TestParseConfig_Help(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var stderr bytes.Buffer
	_, err := parseConfig(afero.NewMemMapFs(), "fibbench", []string{"-h"}, &stderr, availableAlgos)
	if !IsHelp(err) {
		t.Fatalf("err = %v, want flag.ErrHelp", err)
	}
	out := stderr.String()
	for _, s := range []string{"Usage:", "-max-index", "(default 150)", "FIBBENCH_"} {
		if !strings.Contains(out, s) {
			t.Errorf("usage missing %q:\n%s", s, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("usage must not contain escape codes when NO_COLOR is set")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	valid := AppConfig{
		N: 10, Algo: "dp", MaxIndex: 150, Timeout: time.Second,
		SweepFormat: SweepFormatTable, SweepRepeat: 1, Port: "8080",
	}
	if err := valid.Validate(availableAlgos); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"zero timeout", func(c *AppConfig) { c.Timeout = 0 }},
		{"zero max index", func(c *AppConfig) { c.MaxIndex = 0 }},
		{"max index beyond window", func(c *AppConfig) { c.MaxIndex = 1 << 32 }},
		{"n above max", func(c *AppConfig) { c.N = 151 }},
		{"unknown algo", func(c *AppConfig) { c.Algo = "fft" }},
		{"unknown sweep format", func(c *AppConfig) { c.SweepFormat = "html" }},
		{"zero repeat", func(c *AppConfig) { c.SweepRepeat = 0 }},
		{"server without port", func(c *AppConfig) { c.ServerMode = true; c.Port = "" }},
		{"sweep beyond cap", func(c *AppConfig) { c.Sweep = true; c.MaxIndex = sweep.MaxSweepIndex + 1 }},
		{"unknown log level", func(c *AppConfig) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		c := valid
		tt.mutate(&c)
		err := c.Validate(availableAlgos)
		var cfgErr apperrors.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s: err = %v, want ConfigError", tt.name, err)
		}
	}

	all := valid
	all.Algo = "all"
	all.MaxIndex = 1<<32 - 1
	if err := all.Validate(availableAlgos); err != nil {
		t.Errorf("'all' with the widest window rejected: %v", err)
	}

	sw := valid
	sw.Sweep = true
	sw.N = 500
	sw.MaxIndex = sweep.MaxSweepIndex
	if err := sw.Validate(availableAlgos); err != nil {
		t.Errorf("sweep with N above MaxIndex rejected: %v", err)
	}
}

func TestToCalculationOptions(t *testing.T) {
	t.Parallel()
	opts := AppConfig{MaxIndex: 1000, Threshold: 50}.ToCalculationOptions()
	if opts.MaxIndex != 1000 || opts.ParallelThreshold != 50 {
		t.Errorf("ToCalculationOptions() = %+v", opts)
	}
}

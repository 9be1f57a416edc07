package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestZerologAdapter_Fields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewLogger(&buf, "device")

	logger.Info("read",
		String("algorithm", "doubling-clz"),
		Int("digits", 31),
		Int64("offset", 150),
		Uint64("n", 150),
		Float64("ratio", 0.5),
		Duration("elapsed", 1500*time.Nanosecond),
		Field{Key: "busy", Value: false},
		Field{Key: "extra", Value: []int{1}},
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	want := map[string]any{
		"level":     "info",
		"message":   "read",
		"component": "device",
		"algorithm": "doubling-clz",
		"digits":    float64(31),
		"n":         float64(150),
		"busy":      false,
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("entry[%q] = %v, want %v", k, entry[k], v)
		}
	}
	if _, ok := entry["time"]; !ok {
		t.Error("entry has no timestamp")
	}
}

func TestZerologAdapter_Levels(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")

	logger.Error("open failed", errors.New("busy"), Err(errors.New("inner")))
	logger.Debug("debug message")
	logger.Printf("formatted %d", 42)
	logger.Println("plain", "args")

	out := buf.String()
	for _, s := range []string{`"level":"error"`, `"error":"busy"`, `"level":"debug"`, "formatted 42", "plain args"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
	if NewLogger(&buf, "x").Zerolog().GetLevel() > 0 {
		t.Error("default level should log debug entries")
	}
}

func TestNopLogger(t *testing.T) {
	t.Parallel()
	l := NewNopLogger()
	l.Info("ignored")
	l.Error("ignored", errors.New("x"))
	if NewDefaultLogger() == nil {
		t.Error("NewDefaultLogger returned nil")
	}
}

func TestStdLoggerAdapter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewStdLoggerAdapter(stdlog.New(&buf, "", 0))

	l.Info("starting")
	l.Info("listening", String("addr", ":8080"))
	l.Error("failed", errors.New("boom"))
	l.Error("failed", nil)
	l.Debug("details")
	l.Printf("n=%d", 5)
	l.Println("done")

	out := buf.String()
	for _, s := range []string{"[INFO] starting", "[INFO] listening", ":8080", "[ERROR] failed: boom", "failed: <nil>", "[DEBUG] details", "n=5", "done"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, error %v", tt.name, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestSetGlobalLevel(t *testing.T) {
	previous := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	var buf bytes.Buffer
	logger := NewLogger(&buf, "calculator")

	if err := SetGlobalLevel("info"); err != nil {
		t.Fatal(err)
	}
	logger.Debug("calculation completed")
	if buf.Len() != 0 {
		t.Errorf("debug entry written at info level: %s", buf.String())
	}

	if err := SetGlobalLevel("debug"); err != nil {
		t.Fatal(err)
	}
	logger.Debug("calculation completed")
	if !strings.Contains(buf.String(), "calculation completed") {
		t.Error("debug entry dropped at debug level")
	}

	if err := SetGlobalLevel("chatty"); err == nil {
		t.Error("unknown level accepted")
	}
}

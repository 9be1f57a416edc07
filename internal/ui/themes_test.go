package ui

import (
	"os"
	"testing"
)

func TestSetTheme(t *testing.T) {
	prev := Current()
	defer Use(prev)

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"unknown", "dark"},
		{"", "dark"},
	}
	for _, tc := range tests {
		SetTheme(tc.name)
		if got := Current().Name; got != tc.want {
			t.Errorf("SetTheme(%q): active theme %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestUseReturnsPrevious(t *testing.T) {
	orig := Use(LightTheme)
	defer Use(orig)

	if prev := Use(NoColorTheme); prev.Name != "light" {
		t.Errorf("Use returned %q, want light", prev.Name)
	}
}

func TestPaint(t *testing.T) {
	t.Parallel()
	if got := NoColorTheme.Paint(DarkTheme.Error, "x"); got != "x" {
		t.Errorf("NoColorTheme.Paint = %q, want %q", got, "x")
	}
	want := DarkTheme.Success + "ok" + DarkTheme.Reset
	if got := DarkTheme.Paint(DarkTheme.Success, "ok"); got != want {
		t.Errorf("DarkTheme.Paint = %q, want %q", got, want)
	}
	if got := DarkTheme.Paint("", "plain"); got != "plain" {
		t.Errorf("Paint with empty code = %q", got)
	}
	if NoColorTheme.Enabled() || !LightTheme.Enabled() {
		t.Error("Enabled reports the wrong state")
	}
}

func TestColorDisabled(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")

	if !ColorDisabled(true, os.Stdout) {
		t.Error("explicit noColor must disable colors")
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if !ColorDisabled(false, f) {
		t.Error("a regular file is not a terminal")
	}
	if IsTerminal(nil) {
		t.Error("IsTerminal(nil) = true")
	}

	t.Setenv("NO_COLOR", "1")
	if !ColorDisabled(false, os.Stdout) {
		t.Error("NO_COLOR must disable colors")
	}
}

func TestInitTheme(t *testing.T) {
	prev := Current()
	defer Use(prev)

	InitTheme(true)
	if Current().Name != "none" {
		t.Errorf("InitTheme(true) selected %q", Current().Name)
	}

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if Current().Name != "none" {
		t.Errorf("InitTheme with NO_COLOR selected %q", Current().Name)
	}
}

// Package ui holds the terminal color themes shared by the CLI, the usage
// message and the sweep tables.
package ui

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// Theme is a set of ANSI escape codes, one per role.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Info      string
	Bold      string
	Reset     string
}

// Enabled reports whether the theme emits escape codes.
func (t Theme) Enabled() bool {
	return t.Reset != ""
}

// Paint wraps s in code and the reset sequence. It returns s unchanged when
// the theme has no colors.
func (t Theme) Paint(code, s string) string {
	if !t.Enabled() || code == "" {
		return s
	}
	return code + s + t.Reset
}

var (
	// DarkTheme suits dark terminal backgrounds. It is the default.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",
		Secondary: "\033[38;5;245m",
		Success:   "\033[38;5;82m",
		Warning:   "\033[38;5;220m",
		Error:     "\033[38;5;196m",
		Info:      "\033[38;5;141m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// LightTheme suits light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",
		Secondary: "\033[38;5;240m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Info:      "\033[38;5;54m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// NoColorTheme emits nothing.
	NoColorTheme = Theme{Name: "none"}
)

var themes = map[string]Theme{
	DarkTheme.Name:    DarkTheme,
	LightTheme.Name:   LightTheme,
	NoColorTheme.Name: NoColorTheme,
}

var (
	themeMu      sync.RWMutex
	currentTheme = DarkTheme
)

// Current returns the active theme.
func Current() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// Use makes t the active theme and returns the previous one, so tests can
// restore it.
func Use(t Theme) Theme {
	themeMu.Lock()
	defer themeMu.Unlock()
	prev := currentTheme
	currentTheme = t
	return prev
}

// Lookup returns the theme registered under name.
func Lookup(name string) (Theme, bool) {
	t, ok := themes[name]
	return t, ok
}

// SetTheme activates the theme registered under name, falling back to
// DarkTheme for unknown names.
func SetTheme(name string) {
	t, ok := Lookup(name)
	if !ok {
		t = DarkTheme
	}
	Use(t)
}

// ColorDisabled reports whether colors must be suppressed for f: either the
// caller asked for it, NO_COLOR is set (https://no-color.org/), or f is not
// a terminal.
func ColorDisabled(noColor bool, f *os.File) bool {
	if noColor {
		return true
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return !IsTerminal(f)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// InitTheme selects DarkTheme, or NoColorTheme when ColorDisabled reports
// true for stdout.
func InitTheme(noColor bool) {
	if ColorDisabled(noColor, os.Stdout) {
		Use(NoColorTheme)
		return
	}
	Use(DarkTheme)
}

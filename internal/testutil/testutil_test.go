package testutil

import "testing"

func TestStripAnsiCodes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"\x1b[38;5;82mF(10) = 55\x1b[0m", "F(10) = 55"},
		{"\x1b[1mbold\x1b[0m and plain", "bold and plain"},
		{"no codes", "no codes"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripAnsiCodes(tt.in); got != tt.want {
			t.Errorf("StripAnsiCodes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnsureNoLeaks(t *testing.T) {
	done := make(chan struct{})
	go func() { <-done }()
	close(done)
	EnsureNoLeaks(t)
}

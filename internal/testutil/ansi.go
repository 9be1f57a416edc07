// Package testutil holds helpers shared by the package tests.
package testutil

import "regexp"

// ansiRegex matches CSI escape sequences such as color codes.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes ANSI escape codes from s, so assertions can ignore
// the active color theme.
func StripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

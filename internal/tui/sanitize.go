package tui

import (
	"regexp"
	"strings"
	"unicode"
)

// ansiEscape matches CSI and OSC sequences as well as lone two-byte escapes.
var ansiEscape = regexp.MustCompile(`\x1b(\[[0-?]*[ -/]*[@-~]|\][^\x07\x1b]*(\x07|\x1b\\)?|[@-Z\\-_])`)

// sanitize makes user text safe to draw on one line: escape sequences are
// removed and each control character becomes a space.
func sanitize(s string) string {
	s = ansiEscape.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

package ocr

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reBoxNoise   = regexp.MustCompile(`(?m)^[\s|_\-=~]{3,}$`)
	reTrailingWS = regexp.MustCompile(`(?m)[ \t]+$`)
	reBlankRuns  = regexp.MustCompile(`\n{3,}`)
)

// Normalize strips trailing whitespace and collapses runs of blank lines,
// keeping page breaks.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = reTrailingWS.ReplaceAllString(s, "")
	s = reBlankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// HasTextLayer reports whether text holds at least min non-space characters.
func HasTextLayer(text string, min int) bool {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
			if n >= min {
				return true
			}
		}
	}
	return false
}

// Package preprocess implements the preprocessor (component C): line-ending
// normalization, control-character stripping, blank-line collapsing, and the
// line-count cap.
package preprocess

import (
	"regexp"
	"strings"
)

const defaultMaxLines = 10000

var (
	blankRun  = regexp.MustCompile(`\n{4,}`)
	zeroWidth = strings.NewReplacer(
		"​", "", // zero-width space
		"‌", "", // zero-width non-joiner
		"‍", "", // zero-width joiner
		string(rune(0xFEFF)), "", // byte-order mark
	)
)

// Run normalizes raw into the form every later stage expects: CRLF -> LF,
// zero-width and null characters stripped, trailing whitespace trimmed per
// line, runs of 3+ blank lines collapsed to 2, and truncation to maxLines
// (0 or negative means use the default cap).
func Run(raw string, maxLines int) string {
	if maxLines <= 0 {
		maxLines = defaultMaxLines
	}

	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\x00", "")
	s = zeroWidth.Replace(s)

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	s = strings.Join(lines, "\n")
	s = blankRun.ReplaceAllString(s, "\n\n\n")

	lines = strings.Split(s, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}

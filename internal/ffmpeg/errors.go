package ffmpeg

import (
	"regexp"
	"strings"
)

// Pre-compiled regexes for classifying ffmpeg stderr into a reason the
// user can act on. Checked in order by [Summarize]; the first match wins.
var (
	reMissingFile = regexp.MustCompile(
		`(?i)No such file or directory|does not exist`)

	reInvalidInput = regexp.MustCompile(
		`(?i)Invalid data found when processing input|` +
			`could not find codec parameters|` +
			`moov atom not found|` +
			`Error while decoding stream`)

	reUnknownEncoder = regexp.MustCompile(
		`(?i)Unknown encoder|Encoder not found|Error while opening encoder|` +
			`Cannot load .*videotoolbox|Device creation failed`)

	reUnknownFilter = regexp.MustCompile(
		`(?i)No such filter|Error initializing filter`)

	reStreamLayout = regexp.MustCompile(
		`(?i)Stream specifier .* matches no streams|` +
			`Input link .* parameters .* do not match|` +
			`Media type mismatch between|` +
			`Failed to configure output pad`)
)

// MatchMissingFile reports whether stderr says an input could not be opened.
func MatchMissingFile(stderr string) bool { return reMissingFile.MatchString(stderr) }

// MatchInvalidInput reports whether stderr says an input could not be decoded.
func MatchInvalidInput(stderr string) bool { return reInvalidInput.MatchString(stderr) }

// MatchUnknownEncoder reports whether the selected encoder is unavailable.
func MatchUnknownEncoder(stderr string) bool { return reUnknownEncoder.MatchString(stderr) }

// MatchUnknownFilter reports whether a filter in the graph is unavailable.
func MatchUnknownFilter(stderr string) bool { return reUnknownFilter.MatchString(stderr) }

// MatchStreamLayout reports whether the inputs' streams do not fit the graph.
func MatchStreamLayout(stderr string) bool { return reStreamLayout.MatchString(stderr) }

// Summarize classifies stderr into a short reason. When nothing matches it
// returns the last non-empty stderr line, or "" for empty stderr.
func Summarize(stderr string) string {
	switch {
	case MatchMissingFile(stderr):
		return "input file not found"
	case MatchInvalidInput(stderr):
		return "input could not be decoded"
	case MatchUnknownEncoder(stderr):
		return "encoder unavailable"
	case MatchUnknownFilter(stderr):
		return "filter unavailable"
	case MatchStreamLayout(stderr):
		return "inputs have incompatible stream layouts"
	}
	return LastLine(stderr)
}

// LastLine returns the last non-blank line of s, trimmed.
func LastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

// Tail returns at most the last n lines of s.
func Tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

package emitter

import (
	"regexp"
	"strings"
)

// Values crossing into DOT source are held to allow-lists; anything else
// is quoted or dropped rather than interpolated raw.
var (
	nodeIDPattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	hexColorPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)
)

// safeNodeID renders a graph node identifier. Component names already
// match the identifier grammar; anything that does not is emitted as a
// quoted string instead.
func safeNodeID(name string) string {
	if nodeIDPattern.MatchString(name) {
		return name
	}
	return dotQuote(name)
}

// safeColor returns the color when it is a normalized #rrggbb value, and
// "" otherwise so the styling is dropped.
func safeColor(c string) string {
	if hexColorPattern.MatchString(c) {
		return c
	}
	return ""
}

// dotQuote wraps s in a DOT double-quoted string, escaping quotes,
// backslashes, and newlines.
func dotQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// mdCell makes a string safe inside a markdown table cell.
func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// Package textutil collects the small text-shaping helpers shared by the
// stream and render packages: truncation for display, and a safe
// stringifier for arbitrary debug payloads. It mirrors the role of the
// teacher's internal/text package but keeps only what those two packages
// actually call.
package textutil

import "strings"

// Truncate shortens s to at most width runes, appending "..." when
// truncation occurs. A width of 3 or less truncates hard with no ellipsis,
// since there is no room for one.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// EscapeEsc neutralizes any embedded ESC (0x1b) byte by replacing it with
// its literal four-character escape, preventing a string from later being
// interpreted as (or smuggling) an ANSI control sequence once wrapped in
// real color codes. Grounded on spec section 4.D.3's "any embedded ESC
// bytes in user text are escaped before formatting" requirement.
func EscapeEsc(s string) string {
	if !strings.ContainsRune(s, '\x1b') {
		return s
	}
	return strings.ReplaceAll(s, "\x1b", `\x1b`)
}

// Package sanitize cleans script output before it is shown in the TUI
// viewport. Color (SGR) sequences survive; sequences that move the cursor,
// switch screens or set terminal state are dropped.
package sanitize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	oscRe = regexp.MustCompile(`\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)
	csiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
)

// RunOutput returns in with line endings normalized to LF and every escape
// sequence except SGR removed. Cursor-forward becomes spaces so columns
// printed side by side stay apart.
func RunOutput(in string) string {
	out := strings.ReplaceAll(in, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "\n")
	out = oscRe.ReplaceAllString(out, "")
	return csiRe.ReplaceAllStringFunc(out, func(seq string) string {
		switch seq[len(seq)-1] {
		case 'm':
			return seq
		case 'C':
			return strings.Repeat(" ", firstParam(seq, 1))
		case 'G':
			return "  "
		default:
			return ""
		}
	})
}

func firstParam(seq string, def int) int {
	body := strings.TrimLeft(seq[2:len(seq)-1], "?")
	if i := strings.IndexByte(body, ';'); i >= 0 {
		body = body[:i]
	}
	if n, err := strconv.Atoi(body); err == nil && n > 0 {
		return n
	}
	return def
}

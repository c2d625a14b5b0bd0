package nameutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ScriptExt is the extension every managed script carries.
const ScriptExt = ".py"

// IsScript reports whether filename names a managed script.
func IsScript(filename string) bool {
	return strings.HasSuffix(filename, ScriptExt) && len(filename) > len(ScriptExt)
}

// ValidateName checks whether the provided display name can become a script
// filename. It trims and checks for empty names, non-UTF8 bytes, control
// characters and path separators. It does NOT mutate the input; use
// SanitizeName to remove undesirable characters first when desired.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || name == ScriptExt {
		return fmt.Errorf("invalid name: name cannot be empty")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("invalid name: contains invalid encoding")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("invalid name: contains control character U+%04X (%q)", r, r)
		}
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("invalid name: %q must not contain path separators", name)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid name: %q must not start with a dot", name)
	}
	return nil
}

// SanitizeName removes common invisible/control characters and returns the
// sanitized string and a boolean indicating whether any change was made.
// Leading and trailing whitespace is trimmed as well.
func SanitizeName(name string) (string, bool) {
	if name == "" {
		return name, false
	}
	runes := []rune(name)
	out := make([]rune, 0, len(runes))
	changed := false
	for _, r := range runes {
		if unicode.IsControl(r) {
			changed = true
			continue
		}
		switch r {
		case '\u200B', '\u200C', '\u200D', '\uFEFF':
			changed = true
			continue
		}
		out = append(out, r)
	}
	res := strings.TrimSpace(string(out))
	if res != name {
		changed = true
	}
	return res, changed
}

// NormalizeScriptName turns a user-edited display name into the filename it
// commits to: invisible characters are dropped, spaces become underscores and
// the script extension is appended when missing.
func NormalizeScriptName(display string) string {
	name, _ := SanitizeName(display)
	name = strings.ReplaceAll(name, " ", "_")
	if !strings.HasSuffix(name, ScriptExt) {
		name += ScriptExt
	}
	return name
}

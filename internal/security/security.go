// Package security provides security-related utilities.
package security

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// The interpreter command line is split into argv and never passed to a
// shell, so shell syntax in it is a configuration mistake.
var shellSyntax = regexp.MustCompile("[;&|<>`]|\\$\\(")

var dangerousPatterns = []*regexp.Regexp{
	// Destructive filesystem ops
	regexp.MustCompile(`(?i)\brm\s+-rf\b`),
	regexp.MustCompile(`(?i)\bmkfs\b`),
	regexp.MustCompile(`(?i)\bdd\s+if=`),
	// wipe disk
	regexp.MustCompile(`(?i)\bwipefs\b`),
	regexp.MustCompile(`(?i)\bshred\b`),
}

// CheckInterpreter returns nil if the interpreter command line may be used
// to run scripts, or an error describing why it's refused. Checking is
// conservative and not exhaustive.
func CheckInterpreter(cmdline string) error {
	c := strings.TrimSpace(cmdline)
	if c == "" {
		return errors.New("empty interpreter command")
	}
	if loc := shellSyntax.FindStringIndex(c); loc != nil {
		return fmt.Errorf("interpreter %q contains shell syntax %q; it is not run through a shell", c, c[loc[0]:loc[1]])
	}
	for _, re := range dangerousPatterns {
		if re.MatchString(c) {
			return fmt.Errorf("interpreter %q appears destructive", c)
		}
	}
	return nil
}

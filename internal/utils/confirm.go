// Package utils holds small terminal helpers shared by the CLI and TUI.
package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// stdinIsTerminal and askTerminal are swapped in tests.
var stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

var askTerminal = func(msg string) (bool, error) {
	ok := false
	err := huh.NewConfirm().
		Title(msg).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// Confirm asks msg and returns true for yes. On a terminal it shows an
// interactive prompt; otherwise it reads a y/N answer from stdin.
func Confirm(msg string) bool {
	if stdinIsTerminal() {
		ok, err := askTerminal(msg)
		if err == nil {
			return ok
		}
	}
	return ConfirmReader(msg, os.Stdin, os.Stdout)
}

// ConfirmReader writes msg to out and reads a y/N answer from in. Anything
// other than y or yes, including EOF, is a no.
func ConfirmReader(msg string, in io.Reader, out io.Writer) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", msg)
	line, _ := bufio.NewReader(in).ReadString('\n')
	resp := strings.TrimSpace(strings.ToLower(line))
	return resp == "y" || resp == "yes"
}

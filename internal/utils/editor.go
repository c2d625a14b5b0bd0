package utils

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/kballard/go-shellquote"
)

// EditorCommand returns the editor command line. $VISUAL wins over $EDITOR;
// both may carry arguments (e.g. "code -w"). Without either it falls back
// to notepad on Windows and vi elsewhere.
func EditorCommand() ([]string, error) {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		parts, err := shellquote.Split(v)
		if err != nil {
			return nil, fmt.Errorf("parse $%s: %w", env, err)
		}
		if len(parts) > 0 {
			return parts, nil
		}
	}
	if runtime.GOOS == "windows" {
		return []string{"notepad"}, nil
	}
	return []string{"vi"}, nil
}

// OpenEditor opens path in the user's editor and waits for it to exit.
func OpenEditor(path string) error {
	parts, err := EditorCommand()
	if err != nil {
		return err
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open editor: %w", err)
	}
	return nil
}

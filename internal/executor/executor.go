// Package executor invokes script entry points.
package executor

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"

	"github.com/VoxDroid/fnr/internal/security"
)

//go:embed bootstrap.py
var bootstrap string

// noEntryPointExit is the exit status the bootstrap uses when the script
// defines no callable main. A script may exit with the same status itself,
// so the bootstrap also writes the per-run token from noEntryPointEnv to
// stderr. The token is removed from the environment before the script loads.
const (
	noEntryPointExit = 86
	noEntryPointEnv  = "FNR_NO_ENTRY_POINT_TOKEN"
)

// ErrNoEntryPoint is returned when a script does not define main().
var ErrNoEntryPoint = errors.New("script has no main() entry point")

// Runner is an interface for invoking a script's entry point. It allows
// tests to inject fake implementations without starting an interpreter.
type Runner interface {
	Execute(ctx context.Context, path string, stdin io.Reader, stdout io.Writer, stderr io.Writer) error
}

// Executor runs scripts in an interpreter subprocess. The interpreter loads
// the file, looks up main and calls it with no arguments.
type Executor struct {
	// Interpreter is the interpreter command line, e.g. "python3" or
	// "uv run python". Empty selects DefaultInterpreter.
	Interpreter string
	// Dir is the working directory of the child; empty inherits ours.
	Dir string
	// Interactive gives the child a PTY as stdin when the caller's stdin is
	// a terminal, so prompts like getpass work.
	Interactive bool
	DryRun      bool
	Verbose     bool
}

// New returns a Runner backed by the real Executor implementation.
func New(interpreter, dir string, interactive bool) Runner {
	return &Executor{Interpreter: interpreter, Dir: dir, Interactive: interactive}
}

// DefaultInterpreter returns the interpreter used when none is configured.
func DefaultInterpreter() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

// Execute runs the script at path. Its output is streamed to stdout and
// stderr as it is produced. A script without main yields ErrNoEntryPoint;
// any other failure returns an error carrying the exit status and the tail
// of stderr.
func (e *Executor) Execute(ctx context.Context, path string, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	if err := validatePath(path); err != nil {
		return err
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	if handled := e.handleDryRunIfNeeded(path, stdout); handled {
		return nil
	}

	if err := security.CheckInterpreter(e.interpreter()); err != nil {
		return err
	}
	argv := e.invocation(path)
	if err := validateInterpreter(argv[0]); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if e.Dir != "" {
		cmd.Dir = e.Dir
	}
	token := uuid.NewString()
	cmd.Env = append(os.Environ(), noEntryPointEnv+"="+token)

	var berr *bytes.Buffer
	var err error
	if e.Interactive && stdinIsTerminal(stdin) {
		_, berr, err = ptyStarter(cmd, stdin, stdout, stderr)
	} else {
		berr, err = runStreaming(cmd, stdin, stdout, stderr)
	}
	if err != nil {
		return checkExecutionError(err, berr, argv[0], token)
	}
	return nil
}

func (e *Executor) interpreter() string {
	if interp := strings.TrimSpace(e.Interpreter); interp != "" {
		return interp
	}
	return DefaultInterpreter()
}

// invocation returns the interpreter argv for path.
func (e *Executor) invocation(path string) []string {
	argv := splitArgs(e.interpreter())
	return append(argv, "-c", bootstrap, path)
}

// splitArgs splits an interpreter command line respecting quotes.
func splitArgs(s string) []string {
	if toks, err := shellquote.Split(s); err == nil && len(toks) > 0 {
		return toks
	}
	return strings.Fields(s)
}

func (e *Executor) handleDryRunIfNeeded(path string, stdout io.Writer) bool {
	if e.DryRun {
		if e.Verbose {
			_, _ = fmt.Fprintf(stdout, "dry-run: %s\n", path)
		}
		return true
	}
	return false
}

// runStreaming executes cmd with its output going straight to the caller.
// stderr is additionally captured so failures can be reported.
func runStreaming(cmd *exec.Cmd, stdin io.Reader, stdout, stderr io.Writer) (*bytes.Buffer, error) {
	var berr bytes.Buffer
	if stdin != nil {
		cmd.Stdin = stdin
	}
	cmd.Stdout = stdout
	cmd.Stderr = io.MultiWriter(stderr, &berr)
	return &berr, cmd.Run()
}

func stdinIsTerminal(stdin io.Reader) bool {
	f, ok := stdin.(interface{ Fd() uintptr })
	return ok && isTerminal(f.Fd())
}

func checkExecutionError(err error, berr *bytes.Buffer, interpreter, token string) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == noEntryPointExit &&
		berr != nil && token != "" && strings.Contains(berr.String(), token) {
		return ErrNoEntryPoint
	}
	if tail := stderrTail(berr); tail != "" {
		return fmt.Errorf("script failed: %w (interpreter=%s stderr=%q)", err, interpreter, tail)
	}
	return fmt.Errorf("script failed: %w (interpreter=%s)", err, interpreter)
}

// stderrTail returns the last non-empty stderr line, which for a Python
// traceback is the exception itself.
func stderrTail(b *bytes.Buffer) string {
	if b == nil {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

func validateInterpreter(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("interpreter not found in PATH: %s", name)
	}
	return nil
}

func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("invalid script path: empty")
	}
	if strings.IndexFunc(path, func(r rune) bool { return r == 0 || (r < 32 && r != '\t') || r == 0x7f }) != -1 {
		return fmt.Errorf("invalid script path: contains control characters")
	}
	return nil
}

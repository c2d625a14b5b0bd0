package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func requirePython(t *testing.T) string {
	t.Helper()
	interp := DefaultInterpreter()
	if _, err := exec.LookPath(interp); err != nil {
		t.Skipf("%s not available in PATH", interp)
	}
	return interp
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return p
}

func TestExecuteCallsMain(t *testing.T) {
	interp := requirePython(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	d := t.TempDir()
	p := writeScript(t, d, "hello.py", "print('loaded')\n\ndef main():\n    print('hello from main')\n")

	var out, errb bytes.Buffer
	e := &Executor{Interpreter: interp}
	if err := e.Execute(ctx, p, nil, &out, &errb); err != nil {
		t.Fatalf("Execute failed: %v (stderr=%q)", err, errb.String())
	}
	if !strings.Contains(out.String(), "loaded") || !strings.Contains(out.String(), "hello from main") {
		t.Fatalf("expected module load and main output, got: %q", out.String())
	}
}

func TestExecuteNoEntryPoint(t *testing.T) {
	interp := requirePython(t)
	d := t.TempDir()
	p := writeScript(t, d, "nomain.py", "x = 1\n")

	e := &Executor{Interpreter: interp}
	err := e.Execute(context.Background(), p, nil, nil, nil)
	if !errors.Is(err, ErrNoEntryPoint) {
		t.Fatalf("expected ErrNoEntryPoint, got %v", err)
	}
}

func TestExecuteMainExitingWithReservedStatusIsAFailure(t *testing.T) {
	interp := requirePython(t)
	d := t.TempDir()
	p := writeScript(t, d, "exits.py", "import sys\n\ndef main():\n    sys.stderr.write('bye\\n')\n    sys.exit(86)\n")

	e := &Executor{Interpreter: interp}
	err := e.Execute(context.Background(), p, nil, nil, nil)
	if err == nil {
		t.Fatalf("expected error for exit status 86")
	}
	if errors.Is(err, ErrNoEntryPoint) {
		t.Fatalf("main exiting with 86 must not be reported as missing: %v", err)
	}
}

func TestExecuteHidesNoEntryPointToken(t *testing.T) {
	interp := requirePython(t)
	d := t.TempDir()
	p := writeScript(t, d, "peek.py", "import os\n\ndef main():\n    print(os.environ.get('"+noEntryPointEnv+"'))\n")

	var out bytes.Buffer
	e := &Executor{Interpreter: interp}
	if err := e.Execute(context.Background(), p, nil, &out, nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != "None" {
		t.Fatalf("token leaked to the script: %q", out.String())
	}
}

func TestCheckExecutionErrorNeedsToken(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available in PATH")
	}
	exitErr := exec.Command(sh, "-c", "exit 86").Run()
	if exitErr == nil {
		t.Fatalf("expected exit status 86")
	}

	marked := bytes.NewBufferString("fnr: a.py defines no main() [tok-123]\n")
	if err := checkExecutionError(exitErr, marked, "python3", "tok-123"); !errors.Is(err, ErrNoEntryPoint) {
		t.Fatalf("expected ErrNoEntryPoint with token, got %v", err)
	}
	plain := bytes.NewBufferString("bye\n")
	if err := checkExecutionError(exitErr, plain, "python3", "tok-123"); errors.Is(err, ErrNoEntryPoint) {
		t.Fatalf("exit 86 without the token must be a failure")
	}
	if err := checkExecutionError(exitErr, marked, "python3", "other"); errors.Is(err, ErrNoEntryPoint) {
		t.Fatalf("a different token must not match")
	}
	if err := checkExecutionError(exitErr, marked, "python3", ""); errors.Is(err, ErrNoEntryPoint) {
		t.Fatalf("an empty token must not match")
	}
}

func TestExecuteMainRaises(t *testing.T) {
	interp := requirePython(t)
	d := t.TempDir()
	p := writeScript(t, d, "boom.py", "def main():\n    raise ValueError('kaboom')\n")

	var errb bytes.Buffer
	e := &Executor{Interpreter: interp}
	err := e.Execute(context.Background(), p, nil, nil, &errb)
	if err == nil {
		t.Fatalf("expected error for raising script")
	}
	if errors.Is(err, ErrNoEntryPoint) {
		t.Fatalf("a raising main must not be reported as missing")
	}
	if !strings.Contains(err.Error(), "ValueError: kaboom") {
		t.Fatalf("expected exception in error, got: %v", err)
	}
	if !strings.Contains(errb.String(), "Traceback") {
		t.Fatalf("expected traceback streamed to stderr, got: %q", errb.String())
	}
}

func TestExecuteWorkingDirOnImportPath(t *testing.T) {
	interp := requirePython(t)
	root := t.TempDir()
	writeScript(t, root, "helpers.py", "GREETING = 'from helper'\n")
	fnDir := filepath.Join(root, "functions")
	if err := os.Mkdir(fnDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	p := writeScript(t, fnDir, "uses_helper.py", "from helpers import GREETING\n\ndef main():\n    print(GREETING)\n")

	var out bytes.Buffer
	e := &Executor{Interpreter: interp, Dir: root}
	if err := e.Execute(context.Background(), p, nil, &out, nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out.String(), "from helper") {
		t.Fatalf("expected helper import to work, got %q", out.String())
	}
}

func TestExecuteCancelled(t *testing.T) {
	interp := requirePython(t)
	d := t.TempDir()
	p := writeScript(t, d, "slow.py", "import time\n\ndef main():\n    time.sleep(30)\n")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	start := time.Now()
	e := &Executor{Interpreter: interp}
	if err := e.Execute(ctx, p, nil, nil, nil); err == nil {
		t.Fatalf("expected error for cancelled run")
	}
	if time.Since(start) > 10*time.Second {
		t.Fatalf("cancellation did not stop the script")
	}
}

func TestDryRun(t *testing.T) {
	var out bytes.Buffer
	e := &Executor{DryRun: true, Verbose: true}
	if err := e.Execute(context.Background(), "/tmp/x.py", nil, &out, nil); err != nil {
		t.Fatalf("dry-run should not error: %v", err)
	}
	if !strings.Contains(out.String(), "dry-run: /tmp/x.py") {
		t.Fatalf("expected dry-run message, got: %q", out.String())
	}
}

func TestInvocationSplitsInterpreter(t *testing.T) {
	e := &Executor{Interpreter: `uv run "my python"`}
	argv := e.invocation("/s/a.py")
	if len(argv) != 6 {
		t.Fatalf("unexpected argv: %q", argv)
	}
	if argv[0] != "uv" || argv[1] != "run" || argv[2] != "my python" || argv[3] != "-c" || argv[5] != "/s/a.py" {
		t.Fatalf("unexpected argv: %q", argv)
	}
	if argv[4] != bootstrap {
		t.Fatalf("expected bootstrap program as -c argument")
	}

	argv = (&Executor{}).invocation("a.py")
	if argv[0] != DefaultInterpreter() {
		t.Fatalf("expected default interpreter, got %q", argv[0])
	}
}

func TestMissingInterpreter(t *testing.T) {
	e := &Executor{Interpreter: "definitely-not-an-interpreter-xyz"}
	err := e.Execute(context.Background(), "a.py", nil, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "interpreter not found") {
		t.Fatalf("expected interpreter lookup error, got %v", err)
	}
}

func TestValidatePath(t *testing.T) {
	if err := validatePath(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if err := validatePath("a\nb.py"); err == nil {
		t.Fatalf("expected error for newline in path")
	}
	if err := validatePath("functions/a.py"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStderrTail(t *testing.T) {
	b := bytes.NewBufferString("Traceback (most recent call last):\n  File \"x\"\nKeyError: 'k'\n\n")
	if got := stderrTail(b); got != "KeyError: 'k'" {
		t.Fatalf("unexpected tail: %q", got)
	}
	if got := stderrTail(nil); got != "" {
		t.Fatalf("expected empty tail for nil buffer")
	}
}

func TestFuncsTable(t *testing.T) {
	called := false
	f := Funcs{"a.py": func(_ context.Context, stdout io.Writer) error {
		called = true
		_, _ = io.WriteString(stdout, "ran")
		return nil
	}}
	var out bytes.Buffer
	if err := f.Execute(context.Background(), "/dir/a.py", nil, &out, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !called || out.String() != "ran" {
		t.Fatalf("registered function not called: %q", out.String())
	}
	if err := f.Execute(context.Background(), "/dir/b.py", nil, nil, nil); !errors.Is(err, ErrNoEntryPoint) {
		t.Fatalf("expected ErrNoEntryPoint for unregistered script, got %v", err)
	}
}

func TestShellSyntaxInterpreterRefused(t *testing.T) {
	e := &Executor{Interpreter: "python3; rm -rf ~"}
	err := e.Execute(context.Background(), "a.py", nil, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "shell syntax") {
		t.Fatalf("expected shell syntax error, got %v", err)
	}
}

//go:build !windows

package executor

import (
	"bytes"
	"io"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// isTerminal reports whether fd refers to a terminal. Tests override it.
var isTerminal = func(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// hideEcho turns off local echo on the caller's terminal while a script
// reads from its PTY; restoreTerminal undoes it. Tests override both.
var hideEcho = func(fd int) (*term.State, error) {
	oldState, err := term.GetState(fd)
	if err != nil {
		return nil, err
	}
	if err := setEcho(fd, false); err != nil {
		return nil, err
	}
	return oldState, nil
}
var restoreTerminal = func(fd int, state *term.State) error { return term.Restore(fd, state) }

// ptyStarter runs cmd with a PTY as stdin and controlling terminal so
// scripts using input() or getpass() see a real TTY. Stdout and stderr stay
// pipes, streamed to the caller and captured.
var ptyStarter = func(cmd *exec.Cmd, stdin io.Reader, stdout, stderr io.Writer) (*bytes.Buffer, *bytes.Buffer, error) {
	ptmx, pts, err := pty.Open()
	if err != nil {
		return &bytes.Buffer{}, &bytes.Buffer{}, err
	}

	cmd.Stdin = pts
	var bout, berr bytes.Buffer
	if stderr == stdout {
		// one combined stream; berr sees it too for failure reporting
		cmd.Stdout = io.MultiWriter(&bout, &berr, stdout)
		cmd.Stderr = cmd.Stdout
	} else {
		cmd.Stdout = io.MultiWriter(&bout, stdout)
		cmd.Stderr = io.MultiWriter(&berr, stderr)
	}

	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setsid = true
	cmd.SysProcAttr.Setctty = true

	if err := cmd.Start(); err != nil {
		_ = pts.Close()
		_ = ptmx.Close()
		return &bytes.Buffer{}, &bytes.Buffer{}, err
	}
	_ = pts.Close()

	if f, ok := stdin.(interface{ Fd() uintptr }); ok && isTerminal(f.Fd()) {
		if oldState, err := hideEcho(int(f.Fd())); err == nil {
			defer func() { _ = restoreTerminal(int(f.Fd()), oldState) }()
		}
	}

	// keystrokes go to the child; anything it writes to /dev/tty comes back
	go func() { _, _ = io.Copy(ptmx, stdin) }()
	go func() { _, _ = io.Copy(stdout, ptmx) }()

	err = cmd.Wait()
	_ = ptmx.Close()
	return &bout, &berr, err
}

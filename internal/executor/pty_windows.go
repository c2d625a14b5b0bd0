//go:build windows

package executor

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
)

// isTerminal always reports false on Windows so interactive runs fall back
// to plain pipes.
var isTerminal = func(_ uintptr) bool {
	return false
}

var ptyStarter = func(_ *exec.Cmd, _ io.Reader, _, _ io.Writer) (*bytes.Buffer, *bytes.Buffer, error) {
	return &bytes.Buffer{}, &bytes.Buffer{}, fmt.Errorf("interactive runs are not supported on Windows")
}

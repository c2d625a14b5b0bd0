package executor

import (
	"context"
	"io"
	"path/filepath"
)

// Func is an entry point compiled into the host program.
type Func func(ctx context.Context, stdout io.Writer) error

// Funcs is a table of registered entry points keyed by script filename. It
// lets embedders and tests run "scripts" without an interpreter.
type Funcs map[string]Func

// Execute calls the function registered for the base name of path.
func (f Funcs) Execute(ctx context.Context, path string, _ io.Reader, stdout io.Writer, _ io.Writer) error {
	fn, ok := f[filepath.Base(path)]
	if !ok || fn == nil {
		return ErrNoEntryPoint
	}
	if stdout == nil {
		stdout = io.Discard
	}
	return fn(ctx, stdout)
}

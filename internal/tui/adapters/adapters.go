// Package adapters connects the TUI to script execution without tying the
// UI code to the runner's construction details.
package adapters

import (
	"context"

	"github.com/VoxDroid/fnr/internal/rows"
	"github.com/VoxDroid/fnr/internal/runner"
)

// RunEvent is one item streamed from a run: an output line or the result
// of a finished script.
type RunEvent struct {
	Line   string
	Result *runner.Result
}

// RunHandle is returned by ExecutorAdapter.Run to manage streaming output and cancellation.
type RunHandle interface {
	// Events is closed once every target has finished or the run was cancelled.
	Events() <-chan RunEvent
	// Cancel stops the current script and skips the rest.
	Cancel()
}

// ExecutorAdapter runs the checked rows of targets in order.
type ExecutorAdapter interface {
	Run(ctx context.Context, targets []rows.Row, pathOf func(filename string) string) (RunHandle, error)
}

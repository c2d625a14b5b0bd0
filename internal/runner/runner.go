// Package runner runs managed scripts one at a time and turns every outcome,
// including panics in the invocation layer, into a Result. A failing script
// never stops the caller.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/VoxDroid/fnr/internal/executor"
	"github.com/VoxDroid/fnr/internal/rows"
)

// Status is the outcome class of a run.
type Status string

// Run outcomes.
const (
	StatusOK           Status = "ok"
	StatusNoEntryPoint Status = "no_entry_point"
	StatusFailed       Status = "failed"
)

// Result describes one finished run.
type Result struct {
	Filename  string
	Status    Status
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

// Recorder receives every Result, e.g. to keep run history.
type Recorder interface {
	Record(res Result) error
}

// Runner invokes scripts through an executor.Runner.
type Runner struct {
	exec   executor.Runner
	rec    Recorder
	log    *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	beforeEach func(rows.Row)
	afterEach  func(Result)
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder attaches a history recorder.
func WithRecorder(rec Recorder) Option { return func(r *Runner) { r.rec = rec } }

// WithOutput sets the writers that receive script output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithBeforeEach sets a hook RunAll calls before starting each row.
func WithBeforeEach(fn func(rows.Row)) Option { return func(r *Runner) { r.beforeEach = fn } }

// WithAfterEach sets a hook RunAll calls with each row's Result.
func WithAfterEach(fn func(Result)) Option { return func(r *Runner) { r.afterEach = fn } }

// WithStdin sets the reader scripts read from.
func WithStdin(stdin io.Reader) Option { return func(r *Runner) { r.stdin = stdin } }

// New returns a Runner over exec. A nil logger discards.
func New(exec executor.Runner, log *slog.Logger, opts ...Option) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	r := &Runner{exec: exec, log: log, stdout: io.Discard, stderr: io.Discard, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run executes one script and reports how it went. It does not return errors
// and does not panic.
func (r *Runner) Run(ctx context.Context, filename, path string) (res Result) {
	res = Result{Filename: filename, StartedAt: r.now()}
	defer func() {
		if p := recover(); p != nil {
			res.Status = StatusFailed
			res.Err = fmt.Errorf("panic: %v", p)
		}
		res.Duration = r.now().Sub(res.StartedAt)
		r.report(res)
	}()

	r.log.Info("running script", "file", filename)
	err := r.exec.Execute(ctx, path, r.stdin, r.stdout, r.stderr)
	switch {
	case err == nil:
		res.Status = StatusOK
	case errors.Is(err, executor.ErrNoEntryPoint):
		res.Status = StatusNoEntryPoint
		res.Err = err
	default:
		res.Status = StatusFailed
		res.Err = err
	}
	return res
}

// RunAll runs the checked rows in order. Failures are isolated; only a
// cancelled context stops the sequence, skipping the remaining rows.
func (r *Runner) RunAll(ctx context.Context, rs []rows.Row, pathOf func(filename string) string) []Result {
	var out []Result
	for _, row := range rs {
		if !row.Checked {
			continue
		}
		if err := ctx.Err(); err != nil {
			r.log.Warn("run cancelled", "remaining_from", row.Filename, "err", err)
			break
		}
		if r.beforeEach != nil {
			r.beforeEach(row)
		}
		res := r.Run(ctx, row.Filename, pathOf(row.Filename))
		if r.afterEach != nil {
			r.afterEach(res)
		}
		out = append(out, res)
	}
	return out
}

func (r *Runner) report(res Result) {
	switch res.Status {
	case StatusOK:
		r.log.Debug("script finished", "file", res.Filename, "duration", res.Duration)
	case StatusNoEntryPoint:
		r.log.Warn("script has no main() entry point", "file", res.Filename)
	default:
		r.log.Error("script failed", "file", res.Filename, "err", res.Err)
	}
	if r.rec == nil {
		return
	}
	if err := r.rec.Record(res); err != nil {
		r.log.Warn("record run", "file", res.Filename, "err", err)
	}
}

package adapters

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/VoxDroid/fnr/internal/executor"
	"github.com/VoxDroid/fnr/internal/rows"
	"github.com/VoxDroid/fnr/internal/runner"
	"github.com/VoxDroid/fnr/internal/tui/sanitize"
)

// maxLine is the longest output line kept whole; longer lines are split.
const maxLine = 1 << 20

// executorAdapter implements ExecutorAdapter on top of runner.Runner.
type executorAdapter struct {
	exec executor.Runner
	rec  runner.Recorder
	log  *slog.Logger
}

// NewExecutorAdapter constructs an ExecutorAdapter backed by exec. rec and
// log may be nil.
func NewExecutorAdapter(exec executor.Runner, rec runner.Recorder, log *slog.Logger) ExecutorAdapter {
	return &executorAdapter{exec: exec, rec: rec, log: log}
}

func (e *executorAdapter) Run(ctx context.Context, targets []rows.Row, pathOf func(string) string) (RunHandle, error) {
	ctx, cancel := context.WithCancel(ctx)
	events := make(chan RunEvent)
	snapshot := append([]rows.Row(nil), targets...)

	send := func(ev RunEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	out := &lineWriter{emit: func(line string) bool {
		return send(RunEvent{Line: sanitize.RunOutput(line)})
	}}
	opts := []runner.Option{
		runner.WithOutput(out, out),
		runner.WithBeforeEach(func(row rows.Row) {
			send(RunEvent{Line: fmt.Sprintf("-> %s", row.DisplayName)})
		}),
		runner.WithAfterEach(func(res runner.Result) {
			out.Flush()
			send(RunEvent{Result: &res})
		}),
	}
	if e.rec != nil {
		opts = append(opts, runner.WithRecorder(e.rec))
	}
	r := runner.New(e.exec, e.log, opts...)

	go func() {
		defer close(events)
		r.RunAll(ctx, snapshot, pathOf)
	}()

	return &runHandleImpl{ch: events, cancel: cancel}, nil
}

// lineWriter turns script output into one emit call per line. It never
// returns an error, so a script keeps running after the reader went away.
type lineWriter struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	emit func(line string) bool
	gone bool
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		b := w.buf.Bytes()
		i := bytes.IndexByte(b, '\n')
		switch {
		case i >= 0:
			line := string(bytes.TrimSuffix(b[:i], []byte("\r")))
			w.buf.Next(i + 1)
			w.push(line)
		case len(b) >= maxLine:
			w.push(string(w.buf.Next(maxLine)))
		default:
			return len(p), nil
		}
	}
}

// Flush emits any unterminated trailing output.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.push(w.buf.String())
		w.buf.Reset()
	}
}

func (w *lineWriter) push(line string) {
	if w.gone {
		return
	}
	if !w.emit(line) {
		w.gone = true
	}
}

type runHandleImpl struct {
	ch     <-chan RunEvent
	cancel context.CancelFunc
}

func (r *runHandleImpl) Events() <-chan RunEvent { return r.ch }
func (r *runHandleImpl) Cancel()                 { r.cancel() }

package adapters

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/VoxDroid/fnr/internal/executor"
	"github.com/VoxDroid/fnr/internal/rows"
	"github.com/VoxDroid/fnr/internal/runner"
)

func pathOf(fn string) string { return filepath.Join("/scripts", fn) }

func collect(t *testing.T, h RunHandle) (lines []string, results []runner.Result) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-h.Events():
			if !ok {
				return lines, results
			}
			if ev.Result != nil {
				results = append(results, *ev.Result)
				continue
			}
			lines = append(lines, ev.Line)
		case <-timeout:
			t.Fatalf("timed out waiting for run events")
		}
	}
}

type recorded struct{ got []runner.Result }

func (r *recorded) Record(res runner.Result) error {
	r.got = append(r.got, res)
	return nil
}

func TestExecutorAdapter_RunStreamsOutputAndResults(t *testing.T) {
	funcs := executor.Funcs{
		"a.py": func(_ context.Context, w io.Writer) error {
			for _, l := range []string{"one", "two"} {
				_, _ = io.WriteString(w, l+"\n")
				time.Sleep(5 * time.Millisecond)
			}
			return nil
		},
		"b.py": func(context.Context, io.Writer) error { return errors.New("boom") },
		"c.py": func(_ context.Context, w io.Writer) error {
			_, _ = io.WriteString(w, "three\n")
			return nil
		},
	}
	rec := &recorded{}
	a := NewExecutorAdapter(funcs, rec, nil)
	targets := []rows.Row{
		{Filename: "a.py", DisplayName: "a.py", Checked: true},
		{Filename: "skip.py", DisplayName: "skip.py"},
		{Filename: "b.py", DisplayName: "b.py", Checked: true},
		{Filename: "c.py", DisplayName: "c.py", Checked: true},
	}
	h, err := a.Run(context.Background(), targets, pathOf)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	lines, results := collect(t, h)

	want := []string{"-> a.py", "one", "two", "-> b.py", "-> c.py", "three"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	var got []runner.Status
	for _, r := range results {
		got = append(got, r.Status)
	}
	if diff := cmp.Diff([]runner.Status{runner.StatusOK, runner.StatusFailed, runner.StatusOK}, got); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}
	if len(rec.got) != 3 {
		t.Fatalf("expected 3 recorded runs, got %d", len(rec.got))
	}
}

func TestExecutorAdapter_CancelStopsRemaining(t *testing.T) {
	started := make(chan struct{})
	funcs := executor.Funcs{
		"slow.py": func(ctx context.Context, _ io.Writer) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		},
		"never.py": func(context.Context, io.Writer) error {
			t.Errorf("never.py must not run after cancel")
			return nil
		},
	}
	a := NewExecutorAdapter(funcs, nil, nil)
	h, err := a.Run(context.Background(), []rows.Row{
		{Filename: "slow.py", DisplayName: "slow.py", Checked: true},
		{Filename: "never.py", DisplayName: "never.py", Checked: true},
	}, pathOf)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	ev := <-h.Events()
	if !strings.HasPrefix(ev.Line, "-> ") {
		t.Fatalf("expected announce line, got %+v", ev)
	}
	<-started
	h.Cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-h.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("events channel not closed after cancel")
		}
	}
}

func TestExecutorAdapter_LongLineDoesNotBreakTheScript(t *testing.T) {
	long := strings.Repeat("x", 70000)
	funcs := executor.Funcs{
		"long.py": func(_ context.Context, w io.Writer) error {
			if _, err := io.WriteString(w, long+"\n"); err != nil {
				return err
			}
			_, err := io.WriteString(w, "after\n")
			return err
		},
	}
	a := NewExecutorAdapter(funcs, nil, nil)
	h, err := a.Run(context.Background(), []rows.Row{{Filename: "long.py", DisplayName: "long.py", Checked: true}}, pathOf)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	lines, results := collect(t, h)

	if len(results) != 1 || results[0].Status != runner.StatusOK {
		t.Fatalf("expected long.py to succeed, got %+v", results)
	}
	want := []string{"-> long.py", long, "after"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestExecutorAdapter_FlushesUnterminatedOutput(t *testing.T) {
	funcs := executor.Funcs{
		"tail.py": func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, "no newline")
			return err
		},
	}
	h, err := NewExecutorAdapter(funcs, nil, nil).Run(context.Background(),
		[]rows.Row{{Filename: "tail.py", DisplayName: "tail.py", Checked: true}}, pathOf)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	lines, _ := collect(t, h)
	if diff := cmp.Diff([]string{"-> tail.py", "no newline"}, lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

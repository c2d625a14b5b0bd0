package state

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/VoxDroid/fnr/internal/db"
)

func setupRepo(t *testing.T) *Repository {
	dbConn, err := db.Open(filepath.Join(t.TempDir(), "fnr.db"))
	if err != nil {
		t.Fatalf("db.Open(): %v", err)
	}
	r := NewRepository(dbConn)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestCheckedSetRoundTrip(t *testing.T) {
	r := setupRepo(t)
	got, err := r.CheckedSet("/w")
	if err != nil {
		t.Fatalf("CheckedSet on unknown dir: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty set, got %v", got)
	}
	if err := r.SaveChecked("/w", []string{"a.py", "b.py", "a.py"}); err != nil {
		t.Fatalf("SaveChecked: %v", err)
	}
	if err := r.SaveChecked("/other", []string{"z.py"}); err != nil {
		t.Fatalf("SaveChecked other: %v", err)
	}
	got, err = r.CheckedSet("/w")
	if err != nil {
		t.Fatalf("CheckedSet: %v", err)
	}
	if diff := cmp.Diff(map[string]bool{"a.py": true, "b.py": true}, got); diff != "" {
		t.Fatalf("checked set mismatch (-want +got):\n%s", diff)
	}

	if err := r.SaveChecked("/w", []string{"b.py"}); err != nil {
		t.Fatalf("SaveChecked replace: %v", err)
	}
	got, _ = r.CheckedSet("/w")
	if diff := cmp.Diff(map[string]bool{"b.py": true}, got); diff != "" {
		t.Fatalf("replace mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveCheckedRejectsEmptyName(t *testing.T) {
	r := setupRepo(t)
	if err := r.SaveChecked("/w", []string{"ok.py", " "}); err == nil {
		t.Fatalf("expected error for empty filename")
	}
	got, _ := r.CheckedSet("/w")
	if len(got) != 0 {
		t.Fatalf("failed save must not be partially applied, got %v", got)
	}
}

func TestSortDirection(t *testing.T) {
	r := setupRepo(t)
	asc, err := r.SortAscending("/w")
	if err != nil || !asc {
		t.Fatalf("expected default ascending, got %v (%v)", asc, err)
	}
	if err := r.SetSortAscending("/w", false); err != nil {
		t.Fatalf("SetSortAscending: %v", err)
	}
	asc, err = r.SortAscending("/w")
	if err != nil || asc {
		t.Fatalf("expected descending, got %v (%v)", asc, err)
	}
}

func TestRecordAndListRuns(t *testing.T) {
	r := setupRepo(t)
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if _, err := r.RecordRun("/w", "a.py", StatusOK, nil, start, 1500*time.Millisecond); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if _, err := r.RecordRun("/w", "b.py", StatusFailed, errors.New("boom"), start, 0); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if _, err := r.RecordRun("/w", "a.py", StatusNoEntryPoint, nil, start, 0); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if _, err := r.RecordRun("/w", "a.py", "bogus", nil, start, 0); err == nil {
		t.Fatalf("expected invalid status to be rejected")
	}

	all, err := r.ListRuns("/w", "", 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}
	if all[0].Status != StatusNoEntryPoint || all[1].Filename != "b.py" {
		t.Fatalf("expected newest first, got %+v", all)
	}
	if !all[1].Error.Valid || all[1].Error.String != "boom" {
		t.Fatalf("expected error text recorded, got %+v", all[1].Error)
	}

	a, err := r.ListRuns("/w", "a.py", 1)
	if err != nil {
		t.Fatalf("ListRuns filtered: %v", err)
	}
	if len(a) != 1 || a[0].Filename != "a.py" || a[0].Status != StatusNoEntryPoint {
		t.Fatalf("unexpected filtered runs %+v", a)
	}
	if a[0].StartedAt != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected started_at %q", a[0].StartedAt)
	}

	none, err := r.ListRuns("/unknown", "", 0)
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no runs for unknown dir, got %v (%v)", none, err)
	}
}

func TestRenameScriptMovesState(t *testing.T) {
	r := setupRepo(t)
	if err := r.SaveChecked("/w", []string{"old.py"}); err != nil {
		t.Fatalf("SaveChecked: %v", err)
	}
	if _, err := r.RecordRun("/w", "old.py", StatusOK, nil, time.Now(), 0); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := r.RenameScript("/w", "old.py", "new.py"); err != nil {
		t.Fatalf("RenameScript: %v", err)
	}
	got, _ := r.CheckedSet("/w")
	if diff := cmp.Diff(map[string]bool{"new.py": true}, got); diff != "" {
		t.Fatalf("checked mismatch (-want +got):\n%s", diff)
	}
	runs, _ := r.ListRuns("/w", "new.py", 0)
	if len(runs) != 1 {
		t.Fatalf("expected history to follow rename, got %d runs", len(runs))
	}
	if err := r.RenameScript("/unknown", "a.py", "b.py"); err != nil {
		t.Fatalf("rename in unknown dir should be a no-op: %v", err)
	}
}

func TestTouchCreatesWorkspace(t *testing.T) {
	r := setupRepo(t)
	if err := r.Touch("/w"); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if err := r.Touch(" "); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

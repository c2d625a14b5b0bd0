package scriptdir

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeScripts(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("def main():\n    pass\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}
}

func TestDiscoverCreatesDirAndFiltersScripts(t *testing.T) {
	root := filepath.Join(t.TempDir(), "functions")
	d := Open(root, nil)

	got, err := d.Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty discovery, got %v", got)
	}
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		t.Fatalf("expected directory to be created: %v", err)
	}

	writeScripts(t, root, "b.py", "a.py", "notes.txt")
	if err := os.Mkdir(filepath.Join(root, "pkg.py"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, err = d.Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if diff := cmp.Diff([]string{"a.py", "b.py"}, got); diff != "" {
		t.Fatalf("Discover mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOrderMissingFile(t *testing.T) {
	d := Open(t.TempDir(), nil)
	names, exists, err := d.LoadOrder()
	if err != nil {
		t.Fatalf("LoadOrder: %v", err)
	}
	if exists || len(names) != 0 {
		t.Fatalf("expected no order, got exists=%v names=%v", exists, names)
	}
}

func TestLoadOrderTrimsBlankLines(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, OrderFileName), []byte("b.py\n\n  a.py  \r\n\n"), 0o644); err != nil {
		t.Fatalf("write order: %v", err)
	}
	names, exists, err := Open(root, nil).LoadOrder()
	if err != nil {
		t.Fatalf("LoadOrder: %v", err)
	}
	if !exists {
		t.Fatalf("expected order file to exist")
	}
	if diff := cmp.Diff([]string{"b.py", "a.py"}, names); diff != "" {
		t.Fatalf("LoadOrder mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveOrderRoundTrip(t *testing.T) {
	d := Open(filepath.Join(t.TempDir(), "functions"), nil)
	seqs := [][]string{
		{"only.py"},
		{"c.py", "a.py", "b.py"},
		{"function_010.py", "function_002.py", "z z.py", "é.py"},
	}
	for _, want := range seqs {
		if err := d.SaveOrder(want); err != nil {
			t.Fatalf("SaveOrder: %v", err)
		}
		got, _, err := d.LoadOrder()
		if err != nil {
			t.Fatalf("LoadOrder: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
	b, err := os.ReadFile(d.OrderPath())
	if err != nil {
		t.Fatalf("read order: %v", err)
	}
	if string(b) != "function_010.py\nfunction_002.py\nz z.py\né.py\n" {
		t.Fatalf("unexpected order file content: %q", string(b))
	}
}

func TestRename(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, "old.py", "taken.py")
	d := Open(root, nil)

	if err := d.Rename("old.py", "old.py"); err != nil {
		t.Fatalf("same-name rename should be a no-op: %v", err)
	}
	if err := d.Rename("old.py", "taken.py"); !errors.Is(err, ErrTargetExists) {
		t.Fatalf("expected ErrTargetExists, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "old.py")); err != nil {
		t.Fatalf("source must survive a failed rename: %v", err)
	}
	if err := d.Rename("old.py", "new.py"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "new.py")); err != nil {
		t.Fatalf("expected new.py: %v", err)
	}
	if err := d.Rename("missing.py", "other.py"); err == nil {
		t.Fatalf("expected error renaming a missing file")
	}
	if err := d.Rename("new.py", "../escape.py"); err == nil {
		t.Fatalf("expected error for path separator in target")
	}
}

func TestCreateAndNextScriptName(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, "function_002.py")
	d := Open(root, nil)

	name, err := d.NextScriptName(1)
	if err != nil {
		t.Fatalf("NextScriptName: %v", err)
	}
	if name != "function_003.py" {
		t.Fatalf("expected function_003.py (002 is taken), got %s", name)
	}
	if err := d.Create(name, Placeholder(name)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := os.ReadFile(d.Path(name))
	if err != nil {
		t.Fatalf("read created script: %v", err)
	}
	if string(b) != string(Placeholder(name)) {
		t.Fatalf("unexpected placeholder body: %q", string(b))
	}
	if err := d.Create(name, nil); !errors.Is(err, ErrTargetExists) {
		t.Fatalf("expected ErrTargetExists on second create, got %v", err)
	}
}

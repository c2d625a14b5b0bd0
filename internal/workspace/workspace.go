// Package workspace opens a script directory together with its persisted
// state and applies user actions to it, saving after every change.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/VoxDroid/fnr/internal/rows"
	"github.com/VoxDroid/fnr/internal/scriptdir"
	"github.com/VoxDroid/fnr/internal/state"
)

// ErrNotFound is returned when a name does not resolve to a row.
var ErrNotFound = errors.New("script not found")

// Directions accepted by Move.
const (
	Up     = "up"
	Down   = "down"
	Top    = "top"
	Bottom = "bottom"
)

// Workspace is a loaded script directory. The state repository is optional;
// without it checked flags and the sort direction live only in memory.
type Workspace struct {
	dir   *scriptdir.Dir
	store *rows.Store
	state *state.Repository
	key   string
	log   *slog.Logger
}

// Open loads dir and applies the state stored for it in repo.
func Open(dir *scriptdir.Dir, repo *state.Repository, log *slog.Logger) (*Workspace, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	key, err := filepath.Abs(dir.Root())
	if err != nil {
		return nil, fmt.Errorf("resolve script dir: %w", err)
	}
	w := &Workspace{
		dir:   dir,
		store: rows.New(log),
		state: repo,
		key:   key,
		log:   log,
	}
	if repo != nil {
		if err := repo.Touch(key); err != nil {
			return nil, err
		}
		asc, err := repo.SortAscending(key)
		if err != nil {
			return nil, err
		}
		w.store.SetSortAscending(asc)
	}
	if err := w.Reload(); err != nil {
		return nil, err
	}
	return w, nil
}

// Dir returns the script directory.
func (w *Workspace) Dir() *scriptdir.Dir { return w.dir }

// Store returns the row store. Callers that mutate it directly must call Save.
func (w *Workspace) Store() *rows.Store { return w.store }

// Key returns the absolute directory path used to key persisted state.
func (w *Workspace) Key() string { return w.key }

// PathOf returns the on-disk path of filename.
func (w *Workspace) PathOf(filename string) string { return w.dir.Path(filename) }

// Reload reconciles the directory with the order file again. Checked flags
// and the selected row survive when their files still exist.
func (w *Workspace) Reload() error {
	var selected string
	if i, ok := w.store.Selected(); ok {
		r, _ := w.store.Row(i)
		selected = r.Filename
	}
	checked := map[string]bool{}
	for _, r := range w.store.Checked() {
		checked[r.Filename] = true
	}
	if w.state != nil && w.store.Len() == 0 {
		persisted, err := w.state.CheckedSet(w.key)
		if err != nil {
			return err
		}
		checked = persisted
	}

	discovered, err := w.dir.Discover()
	if err != nil {
		return err
	}
	order, _, err := w.dir.LoadOrder()
	if err != nil {
		return err
	}
	w.store.Load(discovered, order)
	for i, r := range w.store.Rows() {
		if checked[r.Filename] {
			w.store.SetChecked(i, true)
		}
	}
	if selected != "" {
		if i := w.store.Index(selected); i >= 0 {
			w.store.Select(i)
		}
	}
	return nil
}

// Save writes the order file and the checked flags and sort direction.
func (w *Workspace) Save() error {
	if err := w.dir.SaveOrder(w.store.Filenames()); err != nil {
		return err
	}
	if w.state == nil {
		return nil
	}
	var checked []string
	for _, r := range w.store.Checked() {
		checked = append(checked, r.Filename)
	}
	if err := w.state.SaveChecked(w.key, checked); err != nil {
		return err
	}
	return w.state.SetSortAscending(w.key, w.store.SortAscending())
}

// Resolve returns the position of a filename or display name.
func (w *Workspace) Resolve(name string) (int, error) {
	i := w.store.Find(name)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return i, nil
}

// Move moves the named row one step or to a boundary and returns its new
// position. Moves past a boundary leave the order unchanged.
func (w *Workspace) Move(name, direction string) (int, error) {
	i, err := w.Resolve(name)
	if err != nil {
		return -1, err
	}
	w.store.Select(i)
	switch direction {
	case Up:
		w.store.MoveUp()
	case Down:
		w.store.MoveDown()
	case Top:
		w.store.MoveToTop()
	case Bottom:
		w.store.MoveToBottom()
	default:
		return -1, fmt.Errorf("unknown direction %q (want up, down, top or bottom)", direction)
	}
	pos, _ := w.store.Selected()
	return pos, w.Save()
}

// SortAlphabetical sorts once confirm approves and saves. It reports whether
// the sort happened and which direction was used.
func (w *Workspace) SortAlphabetical(confirm func() bool) (sorted bool, ascending bool, err error) {
	ascending = w.store.SortAscending()
	if !w.store.SortAlphabetical(confirm) {
		return false, ascending, nil
	}
	return true, ascending, w.Save()
}

// MoveCheckedToTop partitions checked rows first and saves.
func (w *Workspace) MoveCheckedToTop() error {
	w.store.MoveCheckedToTop()
	return w.Save()
}

// SetChecked sets the checked flag of every named row and saves. Nothing is
// changed when a name does not resolve.
func (w *Workspace) SetChecked(names []string, checked bool) error {
	idx := make([]int, 0, len(names))
	for _, n := range names {
		i, err := w.Resolve(n)
		if err != nil {
			return err
		}
		idx = append(idx, i)
	}
	for _, i := range idx {
		w.store.SetChecked(i, checked)
	}
	return w.Save()
}

// ToggleAll checks every row, or unchecks every row when all are checked.
func (w *Workspace) ToggleAll() error {
	w.store.ToggleAll()
	return w.Save()
}

// Rename gives the named row a new display name and commits it to disk.
// The row keeps its old name when the rename fails.
func (w *Workspace) Rename(name, newName string) (string, error) {
	i, err := w.Resolve(name)
	if err != nil {
		return "", err
	}
	return w.RenameAt(i, newName)
}

// RenameAt is Rename by position. Only row i is committed; other rows keep
// their names even when their labels are not in normal form.
func (w *Workspace) RenameAt(i int, newName string) (string, error) {
	r, ok := w.store.Row(i)
	if !ok {
		return "", fmt.Errorf("%w: position %d", ErrNotFound, i)
	}
	w.store.SetDisplayName(i, newName)
	if err := w.store.CommitName(i, w.renameBacking); err != nil {
		w.store.SetDisplayName(i, r.DisplayName)
		return "", err
	}
	r, _ = w.store.Row(i)
	return r.Filename, w.Save()
}

func (w *Workspace) renameBacking(oldName, newName string) error {
	if err := w.dir.Rename(oldName, newName); err != nil {
		return err
	}
	if w.state == nil {
		return nil
	}
	if err := w.state.RenameScript(w.key, oldName, newName); err != nil {
		w.log.Warn("move script state", "from", oldName, "to", newName, "err", err)
	}
	return nil
}

// Add creates the next function_NNN.py with a placeholder entry point,
// appends it and saves.
func (w *Workspace) Add() (string, error) {
	name, err := w.dir.NextScriptName(w.store.Len())
	if err != nil {
		return "", err
	}
	if err := w.dir.Create(name, scriptdir.Placeholder(name)); err != nil {
		return "", err
	}
	i, err := w.store.Append(name)
	if err != nil {
		return "", err
	}
	w.store.Select(i)
	w.log.Info("added script", "file", name)
	return name, w.Save()
}

// Targets resolves names to rows marked checked, in the given order, for
// passing to a runner.
func (w *Workspace) Targets(names []string) ([]rows.Row, error) {
	out := make([]rows.Row, 0, len(names))
	for _, n := range names {
		i, err := w.Resolve(n)
		if err != nil {
			return nil, err
		}
		r, _ := w.store.Row(i)
		r.Checked = true
		out = append(out, r)
	}
	return out, nil
}

// History returns recent runs, newest first. filename may be empty.
func (w *Workspace) History(filename string, limit int) ([]state.Run, error) {
	if w.state == nil {
		return nil, nil
	}
	return w.state.ListRuns(w.key, filename, limit)
}

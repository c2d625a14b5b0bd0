// Package rows holds the ordered script list and its structural edits.
//
// Positions are fixed slots; edits move row content (filename, display name,
// checked flag) through them. A Store is not safe for concurrent use.
package rows

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/VoxDroid/fnr/internal/nameutil"
	"github.com/VoxDroid/fnr/internal/scriptdir"
)

// Row is one managed script entry.
type Row struct {
	Filename    string
	DisplayName string
	Checked     bool
}

// NewRow returns an unchecked row whose display name is its filename.
func NewRow(filename string) Row {
	return Row{Filename: filename, DisplayName: filename}
}

// Store is the ordered row list plus the current selection.
type Store struct {
	rows     []Row
	selected int
	sortAsc  bool
	log      *slog.Logger
}

// New returns an empty store. Sorting starts ascending.
func New(log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{selected: -1, sortAsc: true, log: log}
}

// Load replaces the contents with the reconciliation of discovered scripts
// and the persisted order, clearing the selection.
func (s *Store) Load(discovered, persisted []string) []Row {
	names := scriptdir.Reconcile(discovered, persisted)
	s.rows = make([]Row, 0, len(names))
	for _, n := range names {
		s.rows = append(s.rows, NewRow(n))
	}
	s.selected = -1
	s.log.Debug("loaded rows", "count", len(s.rows))
	return s.Rows()
}

// Len returns the number of rows.
func (s *Store) Len() int { return len(s.rows) }

// Rows returns a copy of the rows in order.
func (s *Store) Rows() []Row {
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Row returns the row at i.
func (s *Store) Row(i int) (Row, bool) {
	if !s.valid(i) {
		return Row{}, false
	}
	return s.rows[i], true
}

// Filenames returns the filenames in order.
func (s *Store) Filenames() []string {
	out := make([]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.Filename
	}
	return out
}

// Checked returns the checked rows in order.
func (s *Store) Checked() []Row {
	var out []Row
	for _, r := range s.rows {
		if r.Checked {
			out = append(out, r)
		}
	}
	return out
}

// Index returns the position of filename, or -1.
func (s *Store) Index(filename string) int {
	for i, r := range s.rows {
		if r.Filename == filename {
			return i
		}
	}
	return -1
}

// Find resolves a user-supplied name to a position. It matches the filename
// first, then the display name, then the filename with the script extension
// appended.
func (s *Store) Find(name string) int {
	if i := s.Index(name); i >= 0 {
		return i
	}
	for i, r := range s.rows {
		if r.DisplayName == name {
			return i
		}
	}
	if !strings.HasSuffix(name, nameutil.ScriptExt) {
		return s.Index(name + nameutil.ScriptExt)
	}
	return -1
}

// Append adds a new row at the end. Duplicate filenames are rejected.
func (s *Store) Append(filename string) (int, error) {
	if s.Index(filename) >= 0 {
		return -1, fmt.Errorf("duplicate script %q", filename)
	}
	s.rows = append(s.rows, NewRow(filename))
	return len(s.rows) - 1, nil
}

// Select marks row i as selected. Out of range indices clear the selection.
func (s *Store) Select(i int) {
	if !s.valid(i) {
		s.selected = -1
		return
	}
	s.selected = i
}

// ClearSelection drops the selection.
func (s *Store) ClearSelection() { s.selected = -1 }

// Selected returns the selected position.
func (s *Store) Selected() (int, bool) {
	if !s.valid(s.selected) {
		return -1, false
	}
	return s.selected, true
}

// SetChecked sets the checked flag of row i.
func (s *Store) SetChecked(i int, checked bool) bool {
	if !s.valid(i) {
		return false
	}
	s.rows[i].Checked = checked
	return true
}

// ToggleAll unchecks every row when all are checked and checks every row otherwise.
func (s *Store) ToggleAll() {
	all := true
	for _, r := range s.rows {
		if !r.Checked {
			all = false
			break
		}
	}
	for i := range s.rows {
		s.rows[i].Checked = !all
	}
}

// SetDisplayName edits the label of row i. The filename changes only when
// names are committed.
func (s *Store) SetDisplayName(i int, name string) bool {
	if !s.valid(i) {
		return false
	}
	s.rows[i].DisplayName = name
	return true
}

// Swap exchanges the content of positions i and j.
func (s *Store) Swap(i, j int) bool {
	if !s.valid(i) || !s.valid(j) {
		return false
	}
	s.rows[i], s.rows[j] = s.rows[j], s.rows[i]
	return true
}

// MoveUp swaps the selected row with the one above it.
func (s *Store) MoveUp() bool {
	i, ok := s.Selected()
	if !ok || i == 0 {
		return false
	}
	s.Swap(i, i-1)
	s.selected = i - 1
	return true
}

// MoveDown swaps the selected row with the one below it.
func (s *Store) MoveDown() bool {
	i, ok := s.Selected()
	if !ok || i == len(s.rows)-1 {
		return false
	}
	s.Swap(i, i+1)
	s.selected = i + 1
	return true
}

// MoveToTop cascades the selected row up to position 0.
func (s *Store) MoveToTop() bool {
	i, ok := s.Selected()
	if !ok || i == 0 {
		return false
	}
	for k := i; k > 0; k-- {
		s.Swap(k, k-1)
	}
	s.selected = 0
	return true
}

// MoveToBottom cascades the selected row down to the last position.
func (s *Store) MoveToBottom() bool {
	i, ok := s.Selected()
	last := len(s.rows) - 1
	if !ok || i == last {
		return false
	}
	for k := i; k < last; k++ {
		s.Swap(k, k+1)
	}
	s.selected = last
	return true
}

// SortAscending reports the direction the next SortAlphabetical will use.
func (s *Store) SortAscending() bool { return s.sortAsc }

// SetSortAscending restores a persisted sort direction.
func (s *Store) SetSortAscending(asc bool) { s.sortAsc = asc }

// SortAlphabetical stably sorts rows by display name once confirm approves,
// then flips the direction for the next call. A nil confirm counts as approval.
func (s *Store) SortAlphabetical(confirm func() bool) bool {
	if confirm != nil && !confirm() {
		return false
	}
	label, hadSel := s.selectedLabel()
	asc := s.sortAsc
	sort.SliceStable(s.rows, func(a, b int) bool {
		if asc {
			return s.rows[a].DisplayName < s.rows[b].DisplayName
		}
		return s.rows[a].DisplayName > s.rows[b].DisplayName
	})
	s.sortAsc = !s.sortAsc
	s.reselect(label, hadSel)
	s.log.Info("sorted rows", "ascending", asc)
	return true
}

// MoveCheckedToTop moves checked rows ahead of unchecked ones, keeping the
// relative order inside each group.
func (s *Store) MoveCheckedToTop() {
	label, hadSel := s.selectedLabel()
	out := make([]Row, 0, len(s.rows))
	for _, r := range s.rows {
		if r.Checked {
			out = append(out, r)
		}
	}
	for _, r := range s.rows {
		if !r.Checked {
			out = append(out, r)
		}
	}
	s.rows = out
	s.reselect(label, hadSel)
}

// CommitName turns the edited display name of row i into its filename.
// rename is called only when the normalized name differs from the current
// filename. On failure the row keeps its filename and edited label.
func (s *Store) CommitName(i int, rename func(oldName, newName string) error) error {
	if !s.valid(i) {
		return fmt.Errorf("commit name: position %d out of range", i)
	}
	r := &s.rows[i]
	newName := nameutil.NormalizeScriptName(r.DisplayName)
	if newName == r.Filename {
		r.DisplayName = newName
		return nil
	}
	if err := rename(r.Filename, newName); err != nil {
		return fmt.Errorf("commit name %q: %w", r.DisplayName, err)
	}
	s.log.Info("renamed row", "from", r.Filename, "to", newName)
	r.Filename = newName
	r.DisplayName = newName
	return nil
}

func (s *Store) valid(i int) bool { return i >= 0 && i < len(s.rows) }

func (s *Store) selectedLabel() (string, bool) {
	i, ok := s.Selected()
	if !ok {
		return "", false
	}
	return s.rows[i].DisplayName, true
}

func (s *Store) reselect(label string, ok bool) {
	if !ok {
		return
	}
	for i, r := range s.rows {
		if r.DisplayName == label {
			s.selected = i
			return
		}
	}
}

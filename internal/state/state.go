package state

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Run statuses accepted by the runs table.
const (
	StatusOK           = "ok"
	StatusNoEntryPoint = "no_entry_point"
	StatusFailed       = "failed"
)

// Repository stores workspace state keyed by absolute script directory.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository using db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// workspaceID returns the row id for dir, creating the row when create is set.
// A missing row with create unset yields 0 and no error.
func (r *Repository) workspaceID(q querier, dir string, create bool) (int64, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return 0, fmt.Errorf("invalid workspace: dir cannot be empty")
	}
	if create {
		if _, err := q.Exec(`INSERT INTO workspaces (dir, created_at) VALUES (?, datetime('now'))
			ON CONFLICT(dir) DO NOTHING`, dir); err != nil {
			return 0, fmt.Errorf("insert workspace: %w", err)
		}
	}
	var id int64
	err := q.QueryRow("SELECT id FROM workspaces WHERE dir = ?", dir).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lookup workspace: %w", err)
	}
	return id, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

// Touch records that dir was opened now.
func (r *Repository) Touch(dir string) error {
	id, err := r.workspaceID(r.db, dir, true)
	if err != nil {
		return err
	}
	_, err = r.db.Exec("UPDATE workspaces SET last_opened_at = datetime('now') WHERE id = ?", id)
	return err
}

// CheckedSet returns the filenames persisted as checked for dir.
func (r *Repository) CheckedSet(dir string) (map[string]bool, error) {
	out := map[string]bool{}
	id, err := r.workspaceID(r.db, dir, false)
	if err != nil || id == 0 {
		return out, err
	}
	rows, err := r.db.Query("SELECT filename FROM checked_scripts WHERE workspace_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("query checked: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var fn string
		if err := rows.Scan(&fn); err != nil {
			return nil, err
		}
		out[fn] = true
	}
	return out, rows.Err()
}

// SaveChecked replaces the checked set for dir with filenames.
func (r *Repository) SaveChecked(dir string, filenames []string) error {
	trx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = trx.Rollback() }()

	id, err := r.workspaceID(trx, dir, true)
	if err != nil {
		return err
	}
	if _, err := trx.Exec("DELETE FROM checked_scripts WHERE workspace_id = ?", id); err != nil {
		return fmt.Errorf("clear checked: %w", err)
	}
	for _, fn := range filenames {
		if _, err := trx.Exec(`INSERT INTO checked_scripts (workspace_id, filename) VALUES (?, ?)
			ON CONFLICT DO NOTHING`, id, fn); err != nil {
			return fmt.Errorf("insert checked %q: %w", fn, err)
		}
	}
	return trx.Commit()
}

// RenameScript moves the checked flag and run history of oldName to newName.
func (r *Repository) RenameScript(dir, oldName, newName string) error {
	if oldName == newName {
		return nil
	}
	trx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = trx.Rollback() }()

	id, err := r.workspaceID(trx, dir, false)
	if err != nil || id == 0 {
		return err
	}
	if _, err := trx.Exec("UPDATE OR REPLACE checked_scripts SET filename = ? WHERE workspace_id = ? AND filename = ?", newName, id, oldName); err != nil {
		return fmt.Errorf("rename checked: %w", err)
	}
	if _, err := trx.Exec("UPDATE runs SET filename = ? WHERE workspace_id = ? AND filename = ?", newName, id, oldName); err != nil {
		return fmt.Errorf("rename runs: %w", err)
	}
	return trx.Commit()
}

// SortAscending reports the next alphabetical sort direction for dir.
// Directories with no stored preference sort ascending first.
func (r *Repository) SortAscending(dir string) (bool, error) {
	id, err := r.workspaceID(r.db, dir, false)
	if err != nil || id == 0 {
		return true, err
	}
	var asc int
	if err := r.db.QueryRow("SELECT sort_ascending FROM workspaces WHERE id = ?", id).Scan(&asc); err != nil {
		return true, fmt.Errorf("query sort direction: %w", err)
	}
	return asc != 0, nil
}

// SetSortAscending stores the next alphabetical sort direction for dir.
func (r *Repository) SetSortAscending(dir string, asc bool) error {
	id, err := r.workspaceID(r.db, dir, true)
	if err != nil {
		return err
	}
	v := 0
	if asc {
		v = 1
	}
	_, err = r.db.Exec("UPDATE workspaces SET sort_ascending = ? WHERE id = ?", v, id)
	return err
}

// RecordRun appends a run to the history of dir and returns its id.
func (r *Repository) RecordRun(dir, filename, status string, runErr error, startedAt time.Time, duration time.Duration) (int64, error) {
	id, err := r.workspaceID(r.db, dir, true)
	if err != nil {
		return 0, err
	}
	var msg sql.NullString
	if runErr != nil {
		msg = sql.NullString{String: runErr.Error(), Valid: true}
	}
	res, err := r.db.Exec(`INSERT INTO runs (workspace_id, filename, status, error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, filename, status, msg, startedAt.UTC().Format(time.RFC3339), duration.Milliseconds())
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// ListRuns returns the most recent runs in dir, newest first. An empty
// filename lists runs of every script; limit <= 0 means no limit.
func (r *Repository) ListRuns(dir, filename string, limit int) ([]Run, error) {
	id, err := r.workspaceID(r.db, dir, false)
	if err != nil || id == 0 {
		return nil, err
	}
	q := "SELECT id, filename, status, error, started_at, duration_ms FROM runs WHERE workspace_id = ?"
	args := []any{id}
	if filename != "" {
		q += " AND filename = ?"
		args = append(args, filename)
	}
	q += " ORDER BY id DESC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Filename, &run.Status, &run.Error, &run.StartedAt, &run.DurationMS); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

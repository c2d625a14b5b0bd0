// Package state persists per-directory script state that the order file
// does not carry: checked flags, the sort direction and run history.
package state

import "database/sql"

// Run is one recorded script execution.
type Run struct {
	ID         int64
	Filename   string
	Status     string
	Error      sql.NullString
	StartedAt  string
	DurationMS int64
}

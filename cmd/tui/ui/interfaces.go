package ui

import "github.com/VoxDroid/fnr/internal/rows"

// Workspace is the subset of *workspace.Workspace the TUI drives. The row
// store it returns is mutated only from the Bubble Tea update loop.
type Workspace interface {
	Key() string
	Store() *rows.Store
	Save() error
	Reload() error
	PathOf(filename string) string
	RenameAt(i int, newName string) (string, error)
	Add() (string, error)
	SortAlphabetical(confirm func() bool) (sorted bool, ascending bool, err error)
	MoveCheckedToTop() error
	ToggleAll() error
}

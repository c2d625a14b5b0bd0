// Package recorder stores runner results as run history.
package recorder

import (
	"github.com/VoxDroid/fnr/internal/runner"
	"github.com/VoxDroid/fnr/internal/state"
)

// History records results for one script directory.
type History struct {
	repo *state.Repository
	dir  string
}

// New returns a History writing to repo under dir.
func New(repo *state.Repository, dir string) *History {
	return &History{repo: repo, dir: dir}
}

// Record implements runner.Recorder.
func (h *History) Record(res runner.Result) error {
	_, err := h.repo.RecordRun(h.dir, res.Filename, string(res.Status), res.Err, res.StartedAt, res.Duration)
	return err
}

// Package settings reads and writes the layout size kept between sessions.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Defaults used when the file or a key is missing.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Settings is the persisted layout size.
type Settings struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Default returns the default settings.
func Default() Settings { return Settings{Width: DefaultWidth, Height: DefaultHeight} }

// Load reads path. A missing file yields the defaults and no error; missing
// or non-positive keys fall back individually. A malformed file yields the
// defaults together with the parse error.
func Load(path string) (Settings, error) {
	s := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	var raw struct {
		Width  *int `json:"width"`
		Height *int `json:"height"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if raw.Width != nil && *raw.Width > 0 {
		s.Width = *raw.Width
	}
	if raw.Height != nil && *raw.Height > 0 {
		s.Height = *raw.Height
	}
	return s, nil
}

// Save writes s to path, creating the parent directory.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

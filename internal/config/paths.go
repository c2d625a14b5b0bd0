package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// EnvHome overrides the data directory.
	EnvHome = "FNR_HOME"
	// EnvDB overrides the SQLite database path.
	EnvDB = "FNR_DB"
)

// DataDir returns the directory used to store fnr data.
func DataDir() (string, error) {
	if d := os.Getenv(EnvHome); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".fnr"), nil
}

// EnsureDataDir returns the data directory, creating it when missing.
func EnsureDataDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return d, nil
}

// DBPath returns the full path to the SQLite database file.
func DBPath() (string, error) {
	if p := os.Getenv(EnvDB); p != "" {
		return p, nil
	}
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "fnr.db"), nil
}

// SettingsPath returns the path of the window-size settings file.
func SettingsPath() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "settings.json"), nil
}

// DefaultLogFile returns the default rotating log file path.
func DefaultLogFile() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "logs", "fnr.log"), nil
}

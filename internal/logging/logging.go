// Package logging builds the slog logger shared by every fnr component.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Levels outside slog's four defaults.
const (
	LevelVerbose  = slog.LevelDebug - 4
	LevelCritical = slog.LevelError + 4
)

// ParseLevel maps a level name to a slog level. Names are case-insensitive;
// unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fatal", "critical":
		return LevelCritical
	case "error", "err":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug", "dbg":
		return slog.LevelDebug
	case "verbose", "verb":
		return LevelVerbose
	default:
		return slog.LevelInfo
	}
}

// Options configures New.
type Options struct {
	Level string
	// File is a rotating log file; empty disables file output.
	File string
	// Stderr receives console output; nil means os.Stderr.
	Stderr io.Writer
}

// New returns a text logger writing to Stderr and, when configured, to a
// rotating file. The returned closer releases the file and is never nil.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	out := opts.Stderr
	if out == nil {
		out = os.Stderr
	}
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     28,
		}
		out = io.MultiWriter(out, lj)
		closer = lj
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level:       ParseLevel(opts.Level),
		ReplaceAttr: levelNames,
	})
	return slog.New(handler), closer, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func levelNames(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	lvl, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	switch {
	case lvl <= LevelVerbose:
		a.Value = slog.StringValue("VERBOSE")
	case lvl >= LevelCritical:
		a.Value = slog.StringValue("CRITICAL")
	}
	return a
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

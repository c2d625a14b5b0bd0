// Package scriptdir persists the script list: it discovers scripts on disk,
// reads and writes the order file and performs backing-file renames.
package scriptdir

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/VoxDroid/fnr/internal/nameutil"
)

// OrderFileName is the name of the order file kept inside the script directory.
const OrderFileName = ".order"

// ErrTargetExists is returned when a rename or create would replace an
// existing script.
var ErrTargetExists = errors.New("target script already exists")

// Dir is a directory of scripts together with its order file.
type Dir struct {
	path      string
	orderPath string
	log       *slog.Logger
}

// Open returns a Dir rooted at path. The directory is created lazily by Discover.
func Open(path string, log *slog.Logger) *Dir {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Dir{
		path:      path,
		orderPath: filepath.Join(path, OrderFileName),
		log:       log.With("dir", path),
	}
}

// Root returns the script directory path.
func (d *Dir) Root() string { return d.path }

// OrderPath returns the order file path.
func (d *Dir) OrderPath() string { return d.orderPath }

// Path returns the full path of filename inside the directory.
func (d *Dir) Path(filename string) string { return filepath.Join(d.path, filename) }

// Discover lists the script files in the directory, creating the directory
// when it does not exist yet. The result is sorted by name.
func (d *Dir) Discover() ([]string, error) {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return nil, fmt.Errorf("create script dir: %w", err)
	}
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("read script dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !nameutil.IsScript(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	d.log.Debug("discovered scripts", "count", len(out))
	return out, nil
}

// LoadOrder reads the order file. Blank lines are skipped and surrounding
// whitespace is trimmed. exists is false when there is no order file yet.
func (d *Dir) LoadOrder() (names []string, exists bool, err error) {
	b, err := os.ReadFile(d.orderPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read order file: %w", err)
	}
	s := bufio.NewScanner(bytes.NewReader(b))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	if err := s.Err(); err != nil {
		return nil, true, fmt.Errorf("parse order file: %w", err)
	}
	return names, true, nil
}

// SaveOrder rewrites the order file with one filename per line.
func (d *Dir) SaveOrder(filenames []string) error {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("create script dir: %w", err)
	}
	var buf bytes.Buffer
	for _, f := range filenames {
		buf.WriteString(f)
		buf.WriteByte('\n')
	}
	tmp, err := os.CreateTemp(d.path, ".order-*.tmp")
	if err != nil {
		return fmt.Errorf("write order file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write order file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write order file: %w", err)
	}
	if err := os.Rename(tmp.Name(), d.orderPath); err != nil {
		return fmt.Errorf("replace order file: %w", err)
	}
	d.log.Info("updated order file", "count", len(filenames))
	return nil
}

// Rename moves the backing file of a script. Equal names are a no-op. An
// existing target is never overwritten.
func (d *Dir) Rename(oldName, newName string) error {
	if oldName == newName {
		return nil
	}
	if err := nameutil.ValidateName(newName); err != nil {
		return err
	}
	newPath := d.Path(newName)
	if _, err := os.Lstat(newPath); err == nil {
		return fmt.Errorf("rename %s -> %s: %w", oldName, newName, ErrTargetExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("rename %s -> %s: %w", oldName, newName, err)
	}
	if err := os.Rename(d.Path(oldName), newPath); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", oldName, newName, err)
	}
	d.log.Info("renamed script", "from", oldName, "to", newName)
	return nil
}

// Create writes a new script with the given body. It fails with
// ErrTargetExists when the file is already present.
func (d *Dir) Create(filename string, body []byte) error {
	if err := nameutil.ValidateName(filename); err != nil {
		return err
	}
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("create script dir: %w", err)
	}
	f, err := os.OpenFile(d.Path(filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("create %s: %w", filename, ErrTargetExists)
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	if _, err := f.Write(body); err != nil {
		_ = f.Close()
		return fmt.Errorf("create %s: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	d.log.Info("created script", "file", filename)
	return nil
}

// NextScriptName returns the first free function_NNN.py name numbered after
// count existing rows.
func (d *Dir) NextScriptName(count int) (string, error) {
	for n := count + 1; n < count+10000; n++ {
		name := fmt.Sprintf("function_%03d%s", n, nameutil.ScriptExt)
		_, err := os.Lstat(d.Path(name))
		if errors.Is(err, fs.ErrNotExist) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("no free script name after function_%03d", count)
}

// Placeholder returns the body written for newly added scripts. It satisfies
// the entry point contract.
func Placeholder(filename string) []byte {
	return []byte(fmt.Sprintf("def main():\n    print(\"Running new function: File name: %s\")\n", filename))
}

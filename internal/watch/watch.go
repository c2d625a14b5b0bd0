// Package watch reports when scripts appear in or vanish from a directory.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/VoxDroid/fnr/internal/nameutil"
)

// DefaultDebounce is the quiet period used when New is given zero.
const DefaultDebounce = 300 * time.Millisecond

// Watcher coalesces script create, remove and rename events in one directory
// into change notifications. Content writes and the order file are ignored.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	changes  chan struct{}
	errors   chan error
	done     chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// New creates a Watcher for dir. It emits nothing until Start is called.
func New(dir string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		watcher:  w,
		dir:      dir,
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching the directory.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.running = true
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop ends watching and closes both channels. It blocks until the event
// loop has exited and is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	close(w.changes)
	close(w.errors)
	if err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// Changes delivers one value per burst of relevant events.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Errors delivers watcher errors.
func (w *Watcher) Errors() <-chan error { return w.errors }

func (w *Watcher) loop() {
	defer w.wg.Done()
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !nameutil.IsScript(filepath.Base(ev.Name)) {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

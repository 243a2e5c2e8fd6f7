// Package watcher reports batches of changed files under a set of
// directories, coalescing bursts of filesystem events.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is the quiet period after the last event before a batch fires.
const DefaultDelay = 200 * time.Millisecond

// ErrClosed indicates the watcher was used after Close.
var ErrClosed = errors.New("watcher closed")

// Filter reports whether a changed path should trigger a rebuild.
type Filter func(path string) bool

// ChangeHandler receives the sorted, deduplicated paths of one batch.
type ChangeHandler func(paths []string)

// Watcher watches directory trees with debouncing.
type Watcher struct {
	fsw     *fsnotify.Watcher
	delay   time.Duration
	filters []Filter
	logger  *slog.Logger
}

// New creates a Watcher. A zero delay uses DefaultDelay; a nil logger discards.
func New(delay time.Duration, logger *slog.Logger, filters ...Filter) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{fsw: fsw, delay: delay, filters: filters, logger: logger}, nil
}

// AddRecursive watches root and every non-hidden directory below it.
// A missing root is skipped so optional directories can be passed freely.
func (w *Watcher) AddRecursive(root string) error {
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// Run delivers debounced batches to onChange until ctx is done.
// onChange runs on a timer goroutine, one batch at a time.
func (w *Watcher) Run(ctx context.Context, onChange ChangeHandler) error {
	d := NewDebouncer(w.delay, onChange)
	defer d.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return ErrClosed
			}
			w.handle(event, d)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrClosed
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event, d *Debouncer) {
	if event.Op == fsnotify.Chmod {
		return
	}
	for _, filter := range w.filters {
		if !filter(event.Name) {
			return
		}
	}

	// New directories must be watched explicitly.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.AddRecursive(event.Name); err != nil {
				w.logger.Warn("watching new directory", "path", event.Name, "error", err)
			}
		}
	}

	w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
	d.Add(event.Name)
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Debouncer groups rapid changes and fires once the stream goes quiet.
type Debouncer struct {
	delay   time.Duration
	fire    ChangeHandler
	mu      sync.Mutex
	fireMu  sync.Mutex // serializes fire calls
	timer   *time.Timer
	pending map[string]struct{}
	stopped bool
}

// NewDebouncer creates a Debouncer calling fire after delay without events.
func NewDebouncer(delay time.Duration, fire ChangeHandler) *Debouncer {
	return &Debouncer{delay: delay, fire: fire, pending: make(map[string]struct{})}
}

// Add records a changed path and restarts the quiet period.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

// Stop cancels any pending batch.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	clear(d.pending)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	clear(d.pending)
	d.mu.Unlock()

	slices.Sort(paths)

	d.fireMu.Lock()
	defer d.fireMu.Unlock()
	d.fire(paths)
}

// NoHiddenFilter rejects dotfiles and paths inside dot-directories.
func NoHiddenFilter(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return false
		}
	}
	return true
}

// NoEditorTempFilter rejects editor swap and backup files.
func NoEditorTempFilter(path string) bool {
	base := filepath.Base(path)
	return !strings.HasSuffix(base, "~") &&
		!strings.HasSuffix(base, ".swp") &&
		!strings.HasSuffix(base, ".swx") &&
		!strings.HasPrefix(base, "#")
}

// OutsideDirFilter rejects paths under dir, such as the build output.
func OutsideDirFilter(dir string) Filter {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = filepath.Clean(dir)
	}
	return func(path string) bool {
		p, err := filepath.Abs(path)
		if err != nil {
			p = filepath.Clean(path)
		}
		return p != abs && !strings.HasPrefix(p, abs+string(filepath.Separator))
	}
}

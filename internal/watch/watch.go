// Package watch reports changes to a set of files, debounced.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before changes are reported.
const DefaultDebounce = 100 * time.Millisecond

// Watcher monitors files for changes.
//
// Directories are watched rather than the files themselves: editors often
// save by writing a temporary file and renaming it over the original,
// which drops a watch placed on the file.
type Watcher struct {
	files    map[string]bool
	debounce time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	onChange func(paths []string)
}

// New creates a watcher for paths. A zero debounce uses DefaultDebounce.
func New(debounce time.Duration, paths ...string) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		files:    make(map[string]bool, len(paths)),
		debounce: debounce,
		logger:   slog.Default().With("component", "watch"),
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("watch: %s: %w", p, err)
		}
		w.files[abs] = true
	}
	return w, nil
}

// OnChange sets the callback. It receives the changed paths, sorted.
func (w *Watcher) OnChange(fn func(paths []string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("watch: %s: %w", d, err)
		}
	}

	var (
		pending = make(map[string]bool)
		timer   = time.NewTimer(w.debounce)
		fire    <-chan time.Time
	)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.files[filepath.Clean(ev.Name)] || ev.Op == fsnotify.Chmod {
				continue
			}
			pending[filepath.Clean(ev.Name)] = true
			timer.Reset(w.debounce)
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-fire:
			fire = nil
			w.notify(pending)
			pending = make(map[string]bool)
		}
	}
}

func (w *Watcher) notify(pending map[string]bool) {
	if len(pending) == 0 {
		return
	}
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	w.mu.Lock()
	fn := w.onChange
	w.mu.Unlock()
	if fn != nil {
		fn(paths)
	}
}

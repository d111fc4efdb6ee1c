// Package watch reloads level files when they change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/cory-johannsen/smclevel/internal/level"
)

// ReloadFunc is called once per changed level file after the debounce
// window has passed.
type ReloadFunc func(ctx context.Context, path string) error

// Watcher observes level directories and coalesces bursts of file events.
type Watcher struct {
	fs       *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration
}

// New creates a Watcher over dirs.
//
// Precondition: debounce must be >= 0; every dir must exist.
// Postcondition: Returns a Watcher that must be closed, or a non-nil error.
func New(logger *zap.Logger, debounce time.Duration, dirs ...string) (*Watcher, error) {
	if debounce < 0 {
		return nil, fmt.Errorf("debounce must be >= 0, got %s", debounce)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return &Watcher{fs: fw, logger: logger, debounce: debounce}, nil
}

// Close stops the underlying file watcher. Run returns once it is closed.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run delivers changed level files to reload until ctx is cancelled or the
// watcher is closed. Reload failures are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, reload ReloadFunc) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			pending[ev.Name] = struct{}{}
			if w.debounce == 0 {
				w.flush(ctx, pending, reload)
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		case <-timer.C:
			w.flush(ctx, pending, reload)
		}
	}
}

func (w *Watcher) flush(ctx context.Context, pending map[string]struct{}, reload ReloadFunc) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
		delete(pending, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			w.logger.Info("level removed", zap.String("file", path))
			continue
		}
		start := time.Now()
		if err := reload(ctx, path); err != nil {
			w.logger.Warn("reloading level failed", zap.String("file", path), zap.Error(err))
			continue
		}
		w.logger.Info("level reloaded",
			zap.String("file", path),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	return level.IsLevelFile(ev.Name)
}

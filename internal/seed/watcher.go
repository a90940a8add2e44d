package seed

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/usecase/search"
)

// DefaultWatchDebounce coalesces the burst of events an editor save produces.
const DefaultWatchDebounce = 250 * time.Millisecond

// Watcher re-applies a seed file whenever it changes on disk.
type Watcher struct {
	path   string
	target Upserter
	wait   time.Duration
	logger *zap.Logger

	// applied is signaled after every apply; tests hook into it.
	applied func(Stats, error)
}

// NewWatcher creates a watcher for path. A non-positive wait uses DefaultWatchDebounce.
func NewWatcher(path string, target Upserter, wait time.Duration, logger *zap.Logger) *Watcher {
	if wait <= 0 {
		wait = DefaultWatchDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{path: path, target: target, wait: wait, logger: logger}
}

// Run watches the file's directory until ctx is canceled. Editors often
// replace a file instead of writing it, so events are matched by name.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("Watching seed file", zap.String("path", w.path))

	deb := search.NewDebouncer(w.wait)
	defer deb.Stop()

	name := filepath.Clean(w.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			deb.Submit(func(uint64) { w.reload(ctx) })
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Seed watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	f, err := Load(w.path)
	if err != nil {
		w.logger.Warn("Seed reload skipped", zap.Error(err))
		w.notify(Stats{}, err)
		return
	}
	st, err := Apply(ctx, w.target, f, w.logger)
	if err != nil {
		w.logger.Warn("Seed reload incomplete", zap.Error(err))
	}
	w.notify(st, err)
}

func (w *Watcher) notify(st Stats, err error) {
	if w.applied != nil {
		w.applied(st, err)
	}
}

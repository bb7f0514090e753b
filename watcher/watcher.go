// Package watcher provides recursive, debounced filesystem watching for
// the search tool's watch mode.
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SkipChecker prunes ignored paths from watching. May be nil.
type SkipChecker interface {
	ShouldIgnore(absolutePath string) bool
	ShouldIgnoreDir(absolutePath string) bool
}

// Watcher watches a set of directory roots recursively and emits
// debounced batches of file events.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	skip      SkipChecker
	logger    *slog.Logger
}

// New creates a watcher covering every non-ignored directory under the
// given roots.
func New(roots []string, skip SkipChecker, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(100 * time.Millisecond),
		skip:      skip,
		logger:    logger,
	}

	for _, root := range roots {
		if err := w.addTree(root); err != nil {
			fsWatcher.Close()
			return nil, err
		}
	}

	return w, nil
}

// addTree registers root and all non-ignored subdirectories. Unreadable
// subdirectories are skipped, matching the resolver's best-effort walk.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skip != nil && w.skip.ShouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if watchErr := w.fsWatcher.Add(path); watchErr != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", watchErr)
		}
		return nil
	})
}

// Events returns the channel receiving debounced event batches.
func (w *Watcher) Events() <-chan []Event {
	return w.debouncer.Output()
}

// Start listens for filesystem events until the watcher is closed.
// Call it in a goroutine.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// handleEvent converts one fsnotify event into a debounced event,
// registering newly created directories along the way.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			if w.skip == nil || !w.skip.ShouldIgnoreDir(path) {
				if err := w.fsWatcher.Add(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	if w.skip != nil && w.skip.ShouldIgnore(path) {
		return
	}

	var op Op
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.debouncer.Add(path, op)
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}

// Package watcher monitors a workspace directory for steering-document
// changes and delivers them to a callback in debounced batches, so a burst of
// editor saves produces a single notification.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when the configured debounce is zero or negative.
const DefaultDebounce = 300 * time.Millisecond

// Watcher monitors a directory tree for file changes.
type Watcher struct {
	logger   *slog.Logger
	debounce time.Duration
}

// New creates a Watcher. A non-positive debounce falls back to
// DefaultDebounce.
func New(logger *slog.Logger, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{logger: logger, debounce: debounce}
}

// Watch monitors the directory rooted at dir and invokes onChange with each
// debounced batch of changed paths until ctx is cancelled. Subdirectories
// present at start are watched too, and directories created while watching
// are added to the watch set. Returns nil on cancellation.
func (w *Watcher) Watch(ctx context.Context, dir string, onChange func(paths []string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	if err := addTree(fw, dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.logger.Info("Watching for changes...", "path", dir, "debounce", w.debounce)

	var debounceTimer *time.Timer
	pending := make(map[string]struct{})
	var pendingMu sync.Mutex
	triggerChan := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Received cancellation signal, exiting watch mode gracefully.")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				w.logger.Warn("File watcher event channel closed unexpectedly.")
				return errors.New("watcher event channel closed")
			}
			w.logger.Debug("Watcher event received", "event", event.String())

			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			// New directories join the watch set so their contents are seen.
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if addErr := fw.Add(event.Name); addErr != nil {
						w.logger.Warn("Failed to watch new directory", "path", event.Name, "error", addErr)
					}
				}
			}

			pendingMu.Lock()
			pending[event.Name] = struct{}{}
			pendingMu.Unlock()

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				select {
				case triggerChan <- struct{}{}:
				default:
				}
			})

		case <-triggerChan:
			pendingMu.Lock()
			batch := make([]string, 0, len(pending))
			for path := range pending {
				batch = append(batch, path)
			}
			pending = make(map[string]struct{})
			pendingMu.Unlock()

			if len(batch) > 0 {
				onChange(batch)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				w.logger.Warn("File watcher error channel closed unexpectedly.")
				return errors.New("watcher error channel closed")
			}
			w.logger.Error("File watcher error encountered, attempting to continue", "error", err)
		}
	}
}

// addTree adds dir and every directory beneath it to the watcher.
func addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return fw.Add(path)
	})
}

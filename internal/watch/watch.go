// Package watch reports changes to a single file. It watches the parent
// directory so editors that save by rename are still seen.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of writes into one notification.
const DefaultDebounce = 100 * time.Millisecond

// File watches one path and calls OnChange after it settles.
type File struct {
	Path     string
	Debounce time.Duration
	OnChange func(path string)
	Logger   *slog.Logger
}

// Run blocks until ctx is done or the watcher fails to start.
func (f *File) Run(ctx context.Context) error {
	abs, err := filepath.Abs(f.Path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", f.Path, err)
	}
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	wait := f.Debounce
	if wait <= 0 {
		wait = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	debounce := time.NewTimer(wait)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending = true
			debounce.Reset(wait)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)

		case <-debounce.C:
			if pending {
				pending = false
				logger.Debug("file changed", "path", abs)
				if f.OnChange != nil {
					f.OnChange(abs)
				}
			}
		}
	}
}

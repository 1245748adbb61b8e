package library

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher debounces filesystem notifications from the video directory and
// triggers a Library.Scan, supplementing spec.md §4.B's baseline ("explicit
// rescan is sufficient; no inotify required") with the live-refresh
// behavior SPEC_FULL.md adds under VIDEO_WATCH=1. The debounce-and-batch
// shape is grounded on the teacher's FileMonitor
// (backend/internal/modules/scannermodule/scanner/file_monitor.go), trimmed
// to a single directory and a single downstream action (rescan) instead of
// per-file database writes.
type Watcher struct {
	lib              *Library
	watcher          *fsnotify.Watcher
	debounceInterval time.Duration

	mu      sync.Mutex
	pending bool
}

// NewWatcher creates a Watcher over lib's directory. Callers must call Run
// in a goroutine and Close when done.
func NewWatcher(lib *Library, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(lib.dir); err != nil {
		fsw.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Watcher{lib: lib, watcher: fsw, debounceInterval: debounce}, nil
}

// Run processes filesystem events until ctx is cancelled or Close is called.
// Rapid bursts of events (a transcode job finishing several variants close
// together) are coalesced into a single rescan per debounce interval.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.debounceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.mu.Lock()
			w.pending = true
			w.mu.Unlock()
		case <-w.watcher.Errors:
			// Individual watcher errors are not fatal to the server; the
			// next debounce tick simply rescans with whatever changed.
		case <-ticker.C:
			w.mu.Lock()
			due := w.pending
			w.pending = false
			w.mu.Unlock()
			if due {
				w.lib.logger.Debug("fsnotify triggered rescan")
				if err := w.lib.Scan(); err != nil {
					w.lib.logger.Warn("watch-triggered scan failed", "error", err)
				}
			}
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Package library implements the media library described in spec.md §4.B:
// a directory scanner that populates the in-memory catalog, plus add/verify
// operations used by the transcode executor and an on-demand integrity check.
package library

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/catalog"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/events"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/streamerr"
)

// Library owns the in-memory Catalog and knows how to (re)populate it from
// a directory of source video files.
type Library struct {
	dir    string
	cat    *catalog.Catalog
	bus    events.Bus
	logger hclog.Logger
}

// New creates a Library rooted at dir. bus may be nil, in which case
// events.Global() is used (so callers that don't care about events don't
// have to thread one through).
func New(dir string, bus events.Bus, logger hclog.Logger) *Library {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if bus == nil {
		bus = events.Global()
	}
	return &Library{
		dir:    dir,
		cat:    catalog.New(),
		bus:    bus,
		logger: logger.Named("library"),
	}
}

// Catalog returns the library's catalog. Callers should prefer Snapshot for
// read access; this accessor exists for packages (the query service, the
// transcode planner) that need the full thread-safe surface.
func (l *Library) Catalog() *catalog.Catalog { return l.cat }

// Scan walks the directory once. For each regular file it attempts to
// parse the filename per the format registry's grammar; on success the
// entry is inserted (or ignored if already present unchanged). Malformed
// names are logged and skipped, never fatal. Directory-level I/O errors
// are returned to the caller. A CatalogChanged event fires if the scan
// produced any net change.
func (l *Library) Scan() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return streamerr.Wrap("scan", l.dir, err)
	}

	changed := false
	for _, de := range entries {
		if info, err := os.Stat(filepath.Join(l.dir, de.Name())); err != nil || !info.Mode().IsRegular() {
			continue
		}
		title, res, container, err := format.ParseFilename(de.Name())
		if err != nil {
			l.logger.Debug("skipping unparseable file", "name", de.Name(), "error", err)
			continue
		}
		full := filepath.Join(l.dir, de.Name())
		if l.cat.Put(catalog.Entry{Title: title, Resolution: res, Container: container, AbsolutePath: full}) {
			changed = true
		}
	}

	if changed {
		l.publishChanged("scan")
	}
	return nil
}

// Add registers a single entry produced outside of Scan (the transcode
// executor, on a successfully completed job). It verifies the file exists
// before inserting, per spec.md §3's ownership rule that the executor never
// writes into the catalog directly.
func (l *Library) Add(e catalog.Entry) error {
	info, err := os.Stat(e.AbsolutePath)
	if err != nil {
		return streamerr.Wrap("add", e.AbsolutePath, streamerr.ErrSourceMissing)
	}
	if !info.Mode().IsRegular() {
		return streamerr.Wrap("add", e.AbsolutePath, streamerr.ErrSourceMissing)
	}

	if l.cat.Put(e) {
		l.publishChanged("add")
	}
	return nil
}

// Snapshot returns an immutable, ordered view of the catalog suitable for
// filtering (spec.md §4.B).
func (l *Library) Snapshot() []catalog.Entry {
	return l.cat.Snapshot()
}

// Verify drops entries whose AbsolutePath no longer resolves to a regular
// file, e.g. because the underlying file was deleted out from under the
// server. Returns the number of entries dropped.
func (l *Library) Verify() int {
	dropped := 0
	for _, e := range l.cat.Snapshot() {
		info, err := os.Stat(e.AbsolutePath)
		if err != nil || !info.Mode().IsRegular() {
			if l.cat.Remove(e.Title, e.Resolution, e.Container) {
				dropped++
			}
		}
	}
	if dropped > 0 {
		l.publishChanged("verify")
	}
	return dropped
}

func (l *Library) publishChanged(reason string) {
	l.bus.Publish(events.Event{
		Type: events.CatalogChanged,
		Data: map[string]interface{}{
			"reason": reason,
			"count":  l.cat.Len(),
		},
	})
}

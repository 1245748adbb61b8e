// Package query implements the catalog query service from spec.md §4.E:
// filtering the catalog by container and bandwidth ceiling, and listing the
// distinct containers present (falling back to the static registry when
// the catalog is empty).
package query

import (
	"sort"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/bandwidth"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/catalog"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
)

// Service answers catalog queries against a Library-owned catalog.
type Service struct {
	cat *catalog.Catalog
}

// New creates a query Service over cat.
func New(cat *catalog.Catalog) *Service {
	return &Service{cat: cat}
}

// ListVideos filters by container exactly, then retains entries with
// height <= bandwidth.Ceiling(mbps). The result inherits the catalog's
// title asc / container asc / height desc ordering (spec.md §4.E, §8).
func (s *Service) ListVideos(container format.Container, mbps float64) []catalog.Entry {
	ceiling := format.Height(bandwidth.Ceiling(mbps))
	var out []catalog.Entry
	for _, e := range s.cat.Snapshot() {
		if e.Container != container {
			continue
		}
		if format.Height(e.Resolution) > ceiling {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ListContainers returns the distinct containers present in the catalog,
// sorted; if the catalog is empty, it returns the full static registry so
// clients can still pick a container before anything has been transcoded.
func (s *Service) ListContainers() []format.Container {
	seen := make(map[format.Container]bool)
	for _, e := range s.cat.Snapshot() {
		seen[e.Container] = true
	}
	if len(seen) == 0 {
		return append([]format.Container(nil), format.Containers...)
	}
	out := make([]format.Container, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Package catalog implements the VideoEntry/Catalog data model from
// spec.md §3: a set of materialized files with fast lookup by
// (title, resolution, container) and by title, single-writer/multiple-reader
// per spec.md §5 ("Library: protected by a single-writer/multiple-reader
// discipline").
package catalog

import (
	"sort"
	"sync"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
)

// Entry is one materialized file (spec.md §3 VideoEntry). Two entries are
// equal iff (Title, Resolution, Container) match.
type Entry struct {
	Title        string
	Resolution   format.Resolution
	Container    format.Container
	AbsolutePath string
}

type key struct {
	title     string
	res       format.Resolution
	container format.Container
}

func keyOf(e Entry) key {
	return key{title: e.Title, res: e.Resolution, container: e.Container}
}

// Catalog is a thread-safe set of Entry with lookup by full key and by
// title. The zero value is not usable; use New.
type Catalog struct {
	mu      sync.RWMutex
	byKey   map[key]Entry
	byTitle map[string][]key
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{
		byKey:   make(map[key]Entry),
		byTitle: make(map[string][]key),
	}
}

// Put inserts or replaces an entry. It returns true if the catalog's
// content set changed (insert or path update), false if the identical
// entry already existed.
func (c *Catalog) Put(e Entry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := keyOf(e)
	if existing, ok := c.byKey[k]; ok && existing == e {
		return false
	}
	if _, ok := c.byKey[k]; !ok {
		c.byTitle[e.Title] = append(c.byTitle[e.Title], k)
	}
	c.byKey[k] = e
	return true
}

// Remove deletes the entry matching (title, res, container) if present,
// returning true if anything was removed.
func (c *Catalog) Remove(title string, res format.Resolution, container format.Container) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key{title: title, res: res, container: container}
	if _, ok := c.byKey[k]; !ok {
		return false
	}
	delete(c.byKey, k)
	keys := c.byTitle[title]
	for i, kk := range keys {
		if kk == k {
			c.byTitle[title] = append(keys[:i], keys[i+1:]...)
			break
		}
	}
	if len(c.byTitle[title]) == 0 {
		delete(c.byTitle, title)
	}
	return true
}

// Get looks up a single entry by its full key.
func (c *Catalog) Get(title string, res format.Resolution, container format.Container) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byKey[key{title: title, res: res, container: container}]
	return e, ok
}

// Titles returns the distinct titles currently present.
func (c *Catalog) Titles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.byTitle))
	for t := range c.byTitle {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ByTitle returns every entry for a given title, in no particular order.
func (c *Catalog) ByTitle(title string) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := c.byTitle[title]
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.byKey[k])
	}
	return out
}

// Snapshot returns an immutable copy of every entry in the catalog, ordered
// by title ascending, then container ascending, then resolution descending
// (spec.md §3's iteration-order invariant, disambiguated for ties by the
// literal ordering in spec.md §8's worked example: entries for one title
// are contiguous, descending by resolution, before the next title starts).
// Readers never block writers beyond the duration of this copy.
func (c *Catalog) Snapshot() []Entry {
	c.mu.RLock()
	out := make([]Entry, 0, len(c.byKey))
	for _, e := range c.byKey {
		out = append(out, e)
	}
	c.mu.RUnlock()

	sortEntries(out)
	return out
}

// Len returns the number of entries currently in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Title != entries[j].Title {
			return entries[i].Title < entries[j].Title
		}
		if entries[i].Container != entries[j].Container {
			return entries[i].Container < entries[j].Container
		}
		hi, hj := format.Height(entries[i].Resolution), format.Height(entries[j].Resolution)
		return hi > hj // descending
	})
}

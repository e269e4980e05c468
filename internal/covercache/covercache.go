// Package covercache keeps a small in-memory cache of cover data URLs so
// that list views don't re-read and re-encode the same cover repeatedly.
//
// # Semantics
//
// The cache is bounded and evicts in insertion order: once full, the
// oldest-inserted entry is dropped, regardless of how recently it was
// read. A Get never refreshes an entry's position, and a Put for an
// existing path updates the value in place without moving it.
//
// # Known limitation
//
// Entries are never invalidated when the underlying file changes on disk;
// a cover edited outside the app shows stale until the process restarts.
// The cache lives for the process lifetime only and is never persisted.
package covercache

import "sync"

// Cache is a bounded path → data URL cache. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]string
	order    []string
}

// New constructs a cache holding at most capacity entries.
func New(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]string, capacity),
	}
}

// Get returns the cached data URL for path and whether it was present.
func (c *Cache) Get(path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dataURL, ok := c.entries[path]
	return dataURL, ok
}

// Put stores the data URL for path, evicting the oldest-inserted entries
// once the capacity is exceeded.
//
// Put is idempotent for an already-cached path: the value is replaced but
// the entry keeps its insertion position, so late completions of abandoned
// loads are harmless.
func (c *Cache) Put(path, dataURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[path]; exists {
		c.entries[path] = dataURL
		return
	}

	c.entries[path] = dataURL
	c.order = append(c.order, path)

	for len(c.order) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len returns the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

package level

import (
	"path/filepath"
	"sync"

	"github.com/decker502/tux/pkg/i18n"
)

// NameCache memoizes ReadName results. The worldmap asks for the title of
// the tile under Tux every frame, so reads must not hit the disk each time.
type NameCache struct {
	mu      sync.Mutex
	dict    *i18n.Dictionary
	entries map[string]NameResult
	reads   int
}

// NewNameCache creates a cache that translates names with dict (may be nil).
func NewNameCache(dict *i18n.Dictionary) *NameCache {
	return &NameCache{
		dict:    dict,
		entries: map[string]NameResult{},
	}
}

// Get returns the cached result for filename, reading the file on a miss.
func (c *NameCache) Get(filename string) NameResult {
	key := filepath.Clean(filename)

	c.mu.Lock()
	defer c.mu.Unlock()

	if res, ok := c.entries[key]; ok {
		return res
	}
	res := ReadName(filename, c.dict)
	c.entries[key] = res
	c.reads++
	return res
}

// Name returns the display name for filename.
func (c *NameCache) Name(filename string) string {
	return c.Get(filename).Name
}

// Invalidate drops the cached entry for filename.
func (c *NameCache) Invalidate(filename string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, filepath.Clean(filename))
}

// InvalidateAll drops every cached entry.
func (c *NameCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]NameResult{}
}

// Reads returns how many times the cache went to disk.
func (c *NameCache) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

package layoutcache

import (
	"context"
	"sync"
)

// MemoryCache keeps entries in process memory
type MemoryCache struct {
	entries map[string]*Entry
	mu      sync.RWMutex
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*Entry)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	return cloneEntry(e), nil
}

func (c *MemoryCache) Put(ctx context.Context, entry *Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[entry.Key] = cloneEntry(entry)
	return nil
}

// Len returns the number of stored entries
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryCache) Close() error { return nil }

func cloneEntry(e *Entry) *Entry {
	clone := *e
	clone.Placements = append([]Placement(nil), e.Placements...)
	return &clone
}

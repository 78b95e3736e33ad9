package weather

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a fetched result is served from cache.
const DefaultCacheTTL = 600 * time.Second

// Cache stores weather results by location for a fixed time-to-live.
// Entries are never invalidated other than by expiry.
type Cache interface {
	Get(ctx context.Context, location string) (Result, bool)
	Set(ctx context.Context, location string, result Result)
}

type memoryEntry struct {
	result    Result
	expiresAt time.Time
}

// MemoryCache is a process-local Cache. Expired entries are dropped lazily on
// read and swept on write. It is safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates an empty cache. A non-positive ttl selects DefaultCacheTTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, location string) (Result, bool) {
	c.mu.RLock()
	entry, ok := c.entries[location]
	c.mu.RUnlock()
	if !ok {
		return Result{}, false
	}
	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if current, ok := c.entries[location]; ok && !c.now().Before(current.expiresAt) {
			delete(c.entries, location)
		}
		c.mu.Unlock()
		return Result{}, false
	}
	return entry.result, true
}

func (c *MemoryCache) Set(_ context.Context, location string, result Result) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.entries[location] = memoryEntry{result: result, expiresAt: now.Add(c.ttl)}
}

// size returns the number of entries currently held, expired or not.
func (c *MemoryCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

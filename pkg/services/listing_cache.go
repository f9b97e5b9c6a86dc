package services

import (
	"sync"
	"time"
)

// DefaultListingTTL is how long a cached view listing stays fresh.
const DefaultListingTTL = time.Minute

// ListingCache is a keyed TTL cache for view listings, owned by the listing
// service instance. Concurrent misses on the same key may both recompute;
// recomputation is idempotent and the last writer wins.
type ListingCache struct {
	mu      sync.RWMutex
	entries map[string]listingCacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type listingCacheEntry struct {
	result   *ListViewsResult
	storedAt time.Time
}

// NewListingCache creates a cache with the given TTL. A nil now uses
// time.Now; tests inject a fake clock. A non-positive ttl means
// DefaultListingTTL.
func NewListingCache(ttl time.Duration, now func() time.Time) *ListingCache {
	if ttl <= 0 {
		ttl = DefaultListingTTL
	}
	if now == nil {
		now = time.Now
	}
	return &ListingCache{
		entries: make(map[string]listingCacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the cached result for key if it is still fresh.
func (c *ListingCache) Get(key string) (*ListViewsResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false
	}
	return entry.result, true
}

// Put stores result under key, overwriting any prior entry.
func (c *ListingCache) Put(key string, result *ListViewsResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = listingCacheEntry{result: result, storedAt: c.now()}
}

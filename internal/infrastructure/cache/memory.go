package cache

import (
	"context"
	"sync"
	"time"

	"github.com/igomarket/backend/internal/domain"
)

// entry is one cached snapshot with its expiration.
type entry struct {
	records    []domain.ProductRecord
	expiration time.Time
}

// SnapshotCache is a thread-safe in-memory cache of snapshot record sets,
// keyed by snapshot name. Snapshots are immutable, so the TTL only bounds
// memory, never staleness.
type SnapshotCache struct {
	data  map[string]entry
	ttl   time.Duration
	mutex sync.RWMutex
}

// NewSnapshotCache creates a cache whose entries live for ttl. A cleanup
// goroutine drops expired entries every 10 minutes.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	cache := &SnapshotCache{
		data: make(map[string]entry),
		ttl:  ttl,
	}
	go cache.cleanupExpired()
	return cache
}

// Get retrieves a cached snapshot.
func (c *SnapshotCache) Get(_ context.Context, name string) ([]domain.ProductRecord, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[name]
	if !exists || time.Now().After(item.expiration) {
		return nil, domain.ErrCacheMiss
	}
	return item.records, nil
}

// Set stores a snapshot's records under its name.
func (c *SnapshotCache) Set(_ context.Context, name string, records []domain.ProductRecord) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[name] = entry{
		records:    records,
		expiration: time.Now().Add(c.ttl),
	}
	return nil
}

// Delete removes one snapshot from the cache.
func (c *SnapshotCache) Delete(_ context.Context, name string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, name)
	return nil
}

// cleanupExpired removes expired entries periodically.
func (c *SnapshotCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for name, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, name)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of cached snapshots.
func (c *SnapshotCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all cached snapshots.
func (c *SnapshotCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]entry)
}

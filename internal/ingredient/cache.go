package ingredient

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CachedCatalog keeps an in-memory snapshot of a Source. The snapshot is
// reloaded after Invalidate or once it is older than the TTL. A TTL of zero
// or less keeps the snapshot until Invalidate is called.
type CachedCatalog struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	snapshot *Catalog
	loadedAt time.Time
}

// NewCachedCatalog wraps source with a snapshot cache.
func NewCachedCatalog(source Source, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Snapshot returns the cached catalog, loading it from the source when needed.
func (c *CachedCatalog) Snapshot(ctx context.Context) (*Catalog, error) {
	c.mu.RLock()
	if c.fresh() {
		snapshot := c.snapshot
		c.mu.RUnlock()
		return snapshot, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fresh() {
		return c.snapshot, nil
	}

	records, err := c.source.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ingredient catalog: %w", err)
	}
	c.snapshot = NewCatalog(records)
	c.loadedAt = c.now()
	return c.snapshot, nil
}

// Invalidate drops the cached snapshot so the next Snapshot call reloads it.
func (c *CachedCatalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.loadedAt = time.Time{}
}

// fresh must be called with c.mu held.
func (c *CachedCatalog) fresh() bool {
	if c.snapshot == nil {
		return false
	}
	if c.ttl <= 0 {
		return true
	}
	return c.now().Sub(c.loadedAt) < c.ttl
}

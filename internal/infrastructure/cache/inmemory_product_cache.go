package cache

import (
	"context"
	"sync"
	"time"

	"github.com/storehub/backend/internal/domain/catalog"
)

// InMemoryProductCache implements ProductCache for single-instance
// deployments and tests. State is not shared across processes.
type InMemoryProductCache struct {
	mu       sync.RWMutex
	products []catalog.Product
	setAt    time.Time
	ttl      time.Duration
}

var _ ProductCache = (*InMemoryProductCache)(nil)

// NewInMemoryProductCache creates an in-memory product cache. A zero ttl
// falls back to DefaultProductTTL.
func NewInMemoryProductCache(ttl time.Duration) *InMemoryProductCache {
	if ttl <= 0 {
		ttl = DefaultProductTTL
	}
	return &InMemoryProductCache{ttl: ttl}
}

// Get returns the cached snapshot, reporting a miss when absent or expired.
func (c *InMemoryProductCache) Get(ctx context.Context) ([]catalog.Product, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.products == nil || time.Since(c.setAt) > c.ttl {
		return nil, false, nil
	}
	out := make([]catalog.Product, len(c.products))
	copy(out, c.products)
	return out, true, nil
}

// Set stores the snapshot.
func (c *InMemoryProductCache) Set(ctx context.Context, products []catalog.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = make([]catalog.Product, len(products))
	copy(c.products, products)
	c.setAt = time.Now()
	return nil
}

// Invalidate drops the snapshot.
func (c *InMemoryProductCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = nil
	return nil
}

package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/buildmart/storefront/internal/domain/catalog"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryProductCache implements ProductCache with process-local storage.
// State is not shared across instances; suitable for single-instance
// deployments and tests.
type InMemoryProductCache struct {
	entries sync.Map // map[string]*memoryEntry
	stopCh  chan struct{}
	once    sync.Once
}

type memoryEntry struct {
	products  []catalog.Product
	expiresAt time.Time
}

func (e *memoryEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// NewInMemoryProductCache creates an in-memory product cache with a
// background sweep of expired entries.
func NewInMemoryProductCache() *InMemoryProductCache {
	c := &InMemoryProductCache{
		stopCh: make(chan struct{}),
	}
	go c.cleanupExpired()
	return c
}

func productMemKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func listMemKey(offset, limit int) string {
	return fmt.Sprintf("list:%d:%d", offset, limit)
}

// GetProduct retrieves a cached product, returning nil on a miss
func (c *InMemoryProductCache) GetProduct(_ context.Context, id int64) (*catalog.Product, error) {
	entry := c.load(productMemKey(id))
	if entry == nil || len(entry.products) != 1 {
		return nil, nil
	}
	product := entry.products[0]
	return &product, nil
}

// SetProduct stores a product with a TTL
func (c *InMemoryProductCache) SetProduct(_ context.Context, product *catalog.Product, ttl time.Duration) error {
	c.entries.Store(productMemKey(product.ID), &memoryEntry{
		products:  []catalog.Product{*product},
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// GetList retrieves a cached catalog page, returning nil on a miss
func (c *InMemoryProductCache) GetList(_ context.Context, offset, limit int) ([]catalog.Product, error) {
	entry := c.load(listMemKey(offset, limit))
	if entry == nil {
		return nil, nil
	}
	page := make([]catalog.Product, len(entry.products))
	copy(page, entry.products)
	return page, nil
}

// SetList stores a catalog page with a TTL
func (c *InMemoryProductCache) SetList(_ context.Context, offset, limit int, products []catalog.Product, ttl time.Duration) error {
	page := make([]catalog.Product, len(products))
	copy(page, products)
	c.entries.Store(listMemKey(offset, limit), &memoryEntry{
		products:  page,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryProductCache) Close() error {
	c.once.Do(func() {
		close(c.stopCh)
	})
	return nil
}

func (c *InMemoryProductCache) load(key string) *memoryEntry {
	v, ok := c.entries.Load(key)
	if !ok {
		return nil
	}
	entry := v.(*memoryEntry)
	if entry.isExpired() {
		c.entries.Delete(key)
		return nil
	}
	return entry
}

func (c *InMemoryProductCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.entries.Range(func(key, value any) bool {
				if value.(*memoryEntry).isExpired() {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}

// Ensure InMemoryProductCache implements ProductCache
var _ ProductCache = (*InMemoryProductCache)(nil)

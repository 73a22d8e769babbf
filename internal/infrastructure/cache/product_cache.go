package cache

import (
	"context"
	"time"

	"github.com/buildmart/storefront/internal/domain/catalog"
)

// ProductCache caches upstream catalog reads so the gateway keeps serving
// product pages through short upstream blips. Entries expire after a TTL;
// the cache is read-through only and never authoritative.
type ProductCache interface {
	// GetProduct returns a cached product, or nil on a miss.
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	// SetProduct stores a product with the given TTL.
	SetProduct(ctx context.Context, product *catalog.Product, ttl time.Duration) error
	// GetList returns a cached catalog page, or nil on a miss.
	GetList(ctx context.Context, offset, limit int) ([]catalog.Product, error)
	// SetList stores a catalog page with the given TTL.
	SetList(ctx context.Context, offset, limit int, products []catalog.Product, ttl time.Duration) error
	// Close releases any underlying resources.
	Close() error
}

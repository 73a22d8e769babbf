package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/buildmart/storefront/internal/domain/catalog"
	"github.com/buildmart/storefront/internal/infrastructure/config"
)

// RedisProductCache implements ProductCache on Redis. Suitable when several
// gateway instances should share one warm catalog cache.
type RedisProductCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisProductCache creates a Redis-backed product cache and verifies the
// connection before returning.
func NewRedisProductCache(cfg config.RedisConfig) (*RedisProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisProductCache{
		client:    client,
		keyPrefix: "catalog:",
	}, nil
}

// NewRedisProductCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or sharing a client across components.
func NewRedisProductCacheWithClient(client *redis.Client, keyPrefix string) *RedisProductCache {
	if keyPrefix == "" {
		keyPrefix = "catalog:"
	}
	return &RedisProductCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisProductCache) productKey(id int64) string {
	return fmt.Sprintf("%sproduct:%d", c.keyPrefix, id)
}

func (c *RedisProductCache) listKey(offset, limit int) string {
	return fmt.Sprintf("%slist:%d:%d", c.keyPrefix, offset, limit)
}

// GetProduct retrieves a cached product, returning nil on a miss
func (c *RedisProductCache) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	data, err := c.client.Get(ctx, c.productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read product from cache: %w", err)
	}

	var product catalog.Product
	if err := json.Unmarshal(data, &product); err != nil {
		// Treat a corrupt entry as a miss rather than an error
		return nil, nil
	}
	return &product, nil
}

// SetProduct stores a product with a TTL
func (c *RedisProductCache) SetProduct(ctx context.Context, product *catalog.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to encode product for cache: %w", err)
	}
	if err := c.client.Set(ctx, c.productKey(product.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write product to cache: %w", err)
	}
	return nil
}

// GetList retrieves a cached catalog page, returning nil on a miss
func (c *RedisProductCache) GetList(ctx context.Context, offset, limit int) ([]catalog.Product, error) {
	data, err := c.client.Get(ctx, c.listKey(offset, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog page from cache: %w", err)
	}

	var products []catalog.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, nil
	}
	return products, nil
}

// SetList stores a catalog page with a TTL
func (c *RedisProductCache) SetList(ctx context.Context, offset, limit int, products []catalog.Product, ttl time.Duration) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode catalog page for cache: %w", err)
	}
	if err := c.client.Set(ctx, c.listKey(offset, limit), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write catalog page to cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisProductCache) Close() error {
	return c.client.Close()
}

// Ensure RedisProductCache implements ProductCache
var _ ProductCache = (*RedisProductCache)(nil)

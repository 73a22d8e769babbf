package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/buildmart/storefront/internal/infrastructure/config"
)

// ProductCacheFactory creates product caches based on configuration
type ProductCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ProductCacheFactoryOption is a functional option for configuring the factory
type ProductCacheFactoryOption func(*ProductCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ProductCacheFactoryOption {
	return func(f *ProductCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) ProductCacheFactoryOption {
	return func(f *ProductCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewProductCacheFactory creates a new factory
func NewProductCacheFactory(cfg config.RedisConfig, opts ...ProductCacheFactoryOption) *ProductCacheFactory {
	f := &ProductCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache creates a product cache, preferring Redis and falling back to
// in-memory when Redis is unreachable and the fallback is allowed.
func (f *ProductCacheFactory) CreateCache() (ProductCache, error) {
	redisCache, err := NewRedisProductCache(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis product cache")
		return redisCache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for product cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory product cache. "+
		"Cache state will not be shared across gateway instances.",
		zap.Error(err),
	)
	return NewInMemoryProductCache(), nil
}

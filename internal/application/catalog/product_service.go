package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/buildmart/storefront/internal/domain/catalog"
	"github.com/buildmart/storefront/internal/infrastructure/cache"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ProductService serves catalog reads through a cache in front of the
// upstream directory. The cache is read-through: a miss goes upstream and
// the result is stored; cache write failures are logged, never surfaced.
type ProductService struct {
	directory catalog.Directory
	cache     cache.ProductCache
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(directory catalog.Directory, productCache cache.ProductCache, cacheTTL time.Duration, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		directory: directory,
		cache:     productCache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// List retrieves a catalog page
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	offset := (filter.Page - 1) * filter.PageSize

	if cached, err := s.cache.GetList(ctx, offset, filter.PageSize); err == nil && cached != nil {
		return toResponses(cached), nil
	}

	products, err := s.directory.ListProducts(ctx, offset, filter.PageSize)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetList(ctx, offset, filter.PageSize, products, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache catalog page", zap.Error(err))
	}

	return toResponses(products), nil
}

// GetByID retrieves a single product
func (s *ProductService) GetByID(ctx context.Context, id int64) (*ProductResponse, error) {
	if cached, err := s.cache.GetProduct(ctx, id); err == nil && cached != nil {
		resp := ToProductResponse(cached)
		return &resp, nil
	}

	product, err := s.directory.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, product, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache product", zap.Int64("product_id", id), zap.Error(err))
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

func toResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses
}

package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/buildmart/storefront/internal/domain/shared"
)

// Product is a read-only catalog record sourced from the upstream storefront
// API. The gateway never creates or mutates products; it only resells them to
// the presentation layer and pins them to order drafts.
type Product struct {
	ID             int64
	Name           string
	Description    string
	PricePerSqm    decimal.Decimal
	Category       string
	ImageURL       string
	VideoURL       string
	Specifications string
	IsAvailable    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewProduct validates an upstream record and returns it as a Product.
// Price per square meter must never be negative; a record violating that is
// treated as an invalid upstream response, not as user input.
func NewProduct(id int64, name string, pricePerSqm decimal.Decimal) (*Product, error) {
	if id <= 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID must be positive")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product name cannot be empty")
	}
	if pricePerSqm.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product price cannot be negative")
	}

	return &Product{
		ID:          id,
		Name:        name,
		PricePerSqm: pricePerSqm,
		IsAvailable: true,
	}, nil
}

// UnitPrice returns the price per square meter.
func (p *Product) UnitPrice() decimal.Decimal {
	return p.PricePerSqm
}

// Directory is the port to the upstream product catalog.
type Directory interface {
	// ListProducts returns the catalog page starting at offset.
	ListProducts(ctx context.Context, offset, limit int) ([]Product, error)
	// GetProduct returns a single product or shared.ErrNotFound.
	GetProduct(ctx context.Context, id int64) (*Product, error)
}

package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/buildmart/storefront/internal/domain/catalog"
)

// ProductResponse represents a product returned to the presentation layer
type ProductResponse struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	PricePerSqm    decimal.Decimal `json:"price_per_sqm"`
	Category       string          `json:"category"`
	ImageURL       string          `json:"image_url"`
	VideoURL       string          `json:"video_url,omitempty"`
	Specifications string          `json:"specifications,omitempty"`
	IsAvailable    bool            `json:"is_available"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}

// ProductListFilter holds list parameters
type ProductListFilter struct {
	Page     int
	PageSize int
}

// ToProductResponse converts a domain product to a response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		PricePerSqm:    p.PricePerSqm,
		Category:       p.Category,
		ImageURL:       p.ImageURL,
		VideoURL:       p.VideoURL,
		Specifications: p.Specifications,
		IsAvailable:    p.IsAvailable,
		CreatedAt:      p.CreatedAt,
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

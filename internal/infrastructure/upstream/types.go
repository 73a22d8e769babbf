package upstream

import (
	"time"

	"github.com/shopspring/decimal"
)

// productRecord mirrors a product as served by the storefront API.
type productRecord struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	PricePerSqm    decimal.Decimal `json:"price_per_sqm"`
	Category       string          `json:"category"`
	ImageURL       string          `json:"image_url"`
	VideoURL       string          `json:"video_url"`
	Specifications string          `json:"specifications"`
	IsAvailable    bool            `json:"is_available"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at"`
}

// orderRecord mirrors the create-order response body.
type orderRecord struct {
	ID         int64           `json:"id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

// errorBody is the error envelope the storefront API returns on failures.
type errorBody struct {
	Detail string `json:"detail"`
}

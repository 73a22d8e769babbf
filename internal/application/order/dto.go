package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/buildmart/storefront/internal/domain/order"
)

// DraftProduct is the product summary pinned to a draft
type DraftProduct struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	PricePerSqm decimal.Decimal `json:"price_per_sqm"`
	ImageURL    string          `json:"image_url"`
}

// DraftResponse represents the current state of an order draft
type DraftResponse struct {
	SessionID       string            `json:"session_id"`
	State           string            `json:"state"`
	Product         DraftProduct      `json:"product"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone"`
	QuantitySqm     decimal.Decimal   `json:"quantity_sqm"`
	Message         string            `json:"message,omitempty"`
	TotalPrice      decimal.Decimal   `json:"total_price"`
	FieldErrors     order.FieldErrors `json:"field_errors,omitempty"`
	SubmissionError bool              `json:"submission_error"`
}

// UpdateDraftRequest carries field mutations for an open draft. Only the
// fields present are applied.
type UpdateDraftRequest struct {
	CustomerName  *string          `json:"customer_name"`
	CustomerEmail *string          `json:"customer_email"`
	CustomerPhone *string          `json:"customer_phone"`
	QuantitySqm   *decimal.Decimal `json:"quantity_sqm"`
	Message       *string          `json:"message"`
}

// SubmitResponse represents the outcome of a successful submission
type SubmitResponse struct {
	OrderID    int64           `json:"order_id"`
	Status     string          `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toDraftResponse(sessionID string, d *order.Draft) *DraftResponse {
	return &DraftResponse{
		SessionID: sessionID,
		State:     string(d.State()),
		Product: DraftProduct{
			ID:          d.Product.ID,
			Name:        d.Product.Name,
			Category:    d.Product.Category,
			PricePerSqm: d.Product.PricePerSqm,
			ImageURL:    d.Product.ImageURL,
		},
		CustomerName:    d.CustomerName,
		CustomerEmail:   d.CustomerEmail,
		CustomerPhone:   d.CustomerPhone,
		QuantitySqm:     d.QuantitySqm,
		Message:         d.Message,
		TotalPrice:      d.TotalPrice(),
		FieldErrors:     d.FieldErrors(),
		SubmissionError: d.HasSubmissionError(),
	}
}

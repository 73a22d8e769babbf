package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Submission is the payload for one upstream create-order call. It is only
// produced by Draft.BeginSubmit after a clean validation pass.
type Submission struct {
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	ProductID     int64           `json:"product_id"`
	QuantitySqm   decimal.Decimal `json:"quantity_sqm"`
	Message       string          `json:"message,omitempty"`
	Source        string          `json:"source"`
}

// Result is the order identity assigned by the upstream API. The gateway
// receives it and hands it to the user; it does not validate or own it.
type Result struct {
	OrderID    int64
	Status     string
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
}

// Gateway is the port to the upstream order-creation endpoint.
type Gateway interface {
	CreateOrder(ctx context.Context, submission *Submission) (*Result, error)
}

// Notifier delivers one user-facing notification per terminal submission
// outcome. Delivery failures are logged by implementations and never fail
// the workflow.
type Notifier interface {
	OrderSubmitted(ctx context.Context, submission *Submission, result *Result)
	OrderFailed(ctx context.Context, submission *Submission, reason string)
	ContactReceived(ctx context.Context, name, email, phone, message string)
}

package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/buildmart/storefront/internal/domain/order"
)

// LogNotifier delivers submission outcomes to the structured log. It is the
// always-on sink; richer channels are layered on top via MultiNotifier.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("notify")}
}

// OrderSubmitted logs a successful order submission
func (n *LogNotifier) OrderSubmitted(_ context.Context, submission *order.Submission, result *order.Result) {
	n.logger.Info("order submitted",
		zap.Int64("order_id", result.OrderID),
		zap.String("status", result.Status),
		zap.Int64("product_id", submission.ProductID),
		zap.String("quantity_sqm", submission.QuantitySqm.String()),
		zap.String("total_price", result.TotalPrice.String()),
		zap.String("source", submission.Source),
	)
}

// OrderFailed logs a failed order submission
func (n *LogNotifier) OrderFailed(_ context.Context, submission *order.Submission, reason string) {
	n.logger.Warn("order submission failed",
		zap.Int64("product_id", submission.ProductID),
		zap.String("source", submission.Source),
		zap.String("reason", reason),
	)
}

// ContactReceived logs an incoming contact-form message
func (n *LogNotifier) ContactReceived(_ context.Context, name, email, phone, message string) {
	n.logger.Info("contact message received",
		zap.String("name", name),
		zap.String("email", email),
		zap.String("phone", phone),
		zap.Int("message_len", len(message)),
	)
}

// MultiNotifier fans one outcome out to several sinks.
type MultiNotifier []order.Notifier

// OrderSubmitted delivers to every sink
func (m MultiNotifier) OrderSubmitted(ctx context.Context, submission *order.Submission, result *order.Result) {
	for _, n := range m {
		n.OrderSubmitted(ctx, submission, result)
	}
}

// OrderFailed delivers to every sink
func (m MultiNotifier) OrderFailed(ctx context.Context, submission *order.Submission, reason string) {
	for _, n := range m {
		n.OrderFailed(ctx, submission, reason)
	}
}

// ContactReceived delivers to every sink
func (m MultiNotifier) ContactReceived(ctx context.Context, name, email, phone, message string) {
	for _, n := range m {
		n.ContactReceived(ctx, name, email, phone, message)
	}
}

// Ensure implementations satisfy the Notifier port
var (
	_ order.Notifier = (*LogNotifier)(nil)
	_ order.Notifier = (MultiNotifier)(nil)
)

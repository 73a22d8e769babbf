package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/buildmart/storefront/internal/domain/order"
	"github.com/buildmart/storefront/internal/infrastructure/config"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier posts submission outcomes to a managers chat through the
// Telegram Bot API. Delivery is best-effort: failures are logged and never
// propagate into the order workflow.
type TelegramNotifier struct {
	apiBase    string
	botToken   string
	chatID     string
	httpClient *http.Client
	logger     *zap.Logger
}

// TelegramNotifierOption is a functional option for configuring the notifier
type TelegramNotifierOption func(*TelegramNotifier)

// WithTelegramAPIBase overrides the Bot API base URL
func WithTelegramAPIBase(base string) TelegramNotifierOption {
	return func(n *TelegramNotifier) {
		n.apiBase = strings.TrimRight(base, "/")
	}
}

// NewTelegramNotifier creates a Telegram-backed notifier
func NewTelegramNotifier(cfg config.TelegramConfig, logger *zap.Logger, opts ...TelegramNotifierOption) *TelegramNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &TelegramNotifier{
		apiBase:  telegramAPIBase,
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.Named("telegram"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// OrderSubmitted posts a new-order notification
func (n *TelegramNotifier) OrderSubmitted(ctx context.Context, submission *order.Submission, result *order.Result) {
	var b strings.Builder
	fmt.Fprintf(&b, "New order #%d (%s)\n", result.OrderID, result.Status)
	fmt.Fprintf(&b, "Product: %d, %s m²\n", submission.ProductID, submission.QuantitySqm.String())
	fmt.Fprintf(&b, "Total: %s\n", result.TotalPrice.StringFixed(2))
	fmt.Fprintf(&b, "Customer: %s, %s, %s\n", submission.CustomerName, submission.CustomerPhone, submission.CustomerEmail)
	if submission.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", submission.Message)
	}
	fmt.Fprintf(&b, "Source: %s", submission.Source)

	n.send(ctx, b.String())
}

// OrderFailed posts a failed-submission notification
func (n *TelegramNotifier) OrderFailed(ctx context.Context, submission *order.Submission, reason string) {
	n.send(ctx, fmt.Sprintf("Order submission failed for product %d (%s): %s",
		submission.ProductID, submission.Source, reason))
}

// ContactReceived posts a contact-form notification
func (n *TelegramNotifier) ContactReceived(ctx context.Context, name, email, phone, message string) {
	n.send(ctx, fmt.Sprintf("Contact request from %s (%s, %s):\n%s", name, phone, email, message))
}

func (n *TelegramNotifier) send(ctx context.Context, text string) {
	payload, err := json.Marshal(map[string]string{
		"chat_id": n.chatID,
		"text":    text,
	})
	if err != nil {
		n.logger.Error("failed to encode telegram message", zap.Error(err))
		return
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
	if err != nil {
		n.logger.Error("failed to create telegram request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("telegram notification not delivered", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		n.logger.Warn("telegram API rejected notification", zap.Int("status", resp.StatusCode))
	}
}

// Ensure TelegramNotifier implements the Notifier port
var _ order.Notifier = (*TelegramNotifier)(nil)

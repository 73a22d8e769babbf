package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/buildmart/storefront/internal/domain/catalog"
	"github.com/buildmart/storefront/internal/domain/order"
	"github.com/buildmart/storefront/internal/domain/shared"
	"github.com/buildmart/storefront/internal/infrastructure/config"
)

// maxResponseSize is the maximum allowed response size from the storefront API (5MB)
const maxResponseSize = 5 * 1024 * 1024

// Sentinel errors for upstream failures
var (
	// ErrUnavailable indicates the storefront API could not be reached
	ErrUnavailable = errors.New("upstream: storefront API unavailable")
	// ErrRequestFailed indicates the storefront API rejected the request
	ErrRequestFailed = errors.New("upstream: storefront API request failed")
	// ErrInvalidResponse indicates a response that could not be decoded
	ErrInvalidResponse = errors.New("upstream: invalid storefront API response")
)

// Client talks to the remote storefront API. It implements both the
// catalog.Directory and order.Gateway ports.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a storefront API client from upstream configuration
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// ListProducts returns a catalog page from GET /api/products.
func (c *Client) ListProducts(ctx context.Context, offset, limit int) ([]catalog.Product, error) {
	path := fmt.Sprintf("/api/products?skip=%d&limit=%d", offset, limit)
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var records []productRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	products := make([]catalog.Product, 0, len(records))
	for _, rec := range records {
		product, err := toDomainProduct(rec)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

// GetProduct returns a single product from GET /api/products/{id}.
// Unknown IDs map to shared.ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	body, err := c.get(ctx, "/api/products/"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}

	var rec productRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return toDomainProduct(rec)
}

// CreateOrder posts one submission to POST /api/orders.
func (c *Client) CreateOrder(ctx context.Context, submission *order.Submission) (*order.Result, error) {
	body, err := c.post(ctx, "/api/orders", submission)
	if err != nil {
		return nil, err
	}

	var rec orderRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &order.Result{
		OrderID:    rec.ID,
		Status:     rec.Status,
		TotalPrice: rec.TotalPrice,
		CreatedAt:  rec.CreatedAt,
	}, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("upstream: failed to create request: %w", err)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("upstream: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("upstream: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("upstream: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, shared.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		detail := decodeDetail(body)
		c.logger.Warn("storefront API rejected request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail),
		)
		if detail != "" {
			return nil, fmt.Errorf("%w: HTTP %d - %s", ErrRequestFailed, resp.StatusCode, detail)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}

	return body, nil
}

func decodeDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return eb.Detail
}

func toDomainProduct(rec productRecord) (*catalog.Product, error) {
	if rec.ID <= 0 || rec.PricePerSqm.IsNegative() {
		return nil, fmt.Errorf("%w: product %d has invalid identity or price", ErrInvalidResponse, rec.ID)
	}

	product := &catalog.Product{
		ID:             rec.ID,
		Name:           rec.Name,
		Description:    rec.Description,
		PricePerSqm:    rec.PricePerSqm,
		Category:       rec.Category,
		ImageURL:       rec.ImageURL,
		VideoURL:       rec.VideoURL,
		Specifications: rec.Specifications,
		IsAvailable:    rec.IsAvailable,
		CreatedAt:      rec.CreatedAt,
	}
	if rec.UpdatedAt != nil {
		product.UpdatedAt = *rec.UpdatedAt
	}
	return product, nil
}

// Ensure Client implements both upstream ports
var (
	_ catalog.Directory = (*Client)(nil)
	_ order.Gateway     = (*Client)(nil)
)

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderapp "github.com/buildmart/storefront/internal/application/order"
	"github.com/buildmart/storefront/internal/domain/catalog"
	"github.com/buildmart/storefront/internal/domain/order"
	"github.com/buildmart/storefront/internal/domain/shared"
	"github.com/buildmart/storefront/internal/interfaces/http/middleware"
	"github.com/buildmart/storefront/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubDirectory struct {
	products map[int64]*catalog.Product
}

func (s *stubDirectory) ListProducts(ctx context.Context, offset, limit int) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubDirectory) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

type stubGateway struct {
	result *order.Result
	err    error
	calls  int
}

func (s *stubGateway) CreateOrder(ctx context.Context, submission *order.Submission) (*order.Result, error) {
	s.calls++
	return s.result, s.err
}

type noopNotifier struct{}

func (noopNotifier) OrderSubmitted(context.Context, *order.Submission, *order.Result) {}
func (noopNotifier) OrderFailed(context.Context, *order.Submission, string)          {}
func (noopNotifier) ContactReceived(context.Context, string, string, string, string) {}

func newOrderTestServer(t *testing.T, gateway *stubGateway) *gin.Engine {
	t.Helper()

	product, err := catalog.NewProduct(7, "Granite Slab", decimal.NewFromFloat(350.0))
	require.NoError(t, err)

	directory := &stubDirectory{products: map[int64]*catalog.Product{7: product}}
	workflow := orderapp.NewWorkflowService(directory, gateway, noopNotifier{}, nil)
	t.Cleanup(func() { _ = workflow.Close() })

	engine := gin.New()
	engine.Use(middleware.RequestID())
	router.NewRouter(engine).
		Register(NewOrderHandler(workflow)).
		Setup()
	return engine
}

func doJSON(engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		SessionID       string          `json:"session_id"`
		State           string          `json:"state"`
		QuantitySqm     decimal.Decimal `json:"quantity_sqm"`
		TotalPrice      decimal.Decimal `json:"total_price"`
		OrderID         int64           `json:"order_id"`
		Status          string          `json:"status"`
		SubmissionError bool            `json:"submission_error"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func openDraft(t *testing.T, engine *gin.Engine) string {
	t.Helper()
	w := doJSON(engine, http.MethodPost, "/api/v1/orders/drafts", gin.H{"product_id": 7})
	require.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	require.NotEmpty(t, env.Data.SessionID)
	return env.Data.SessionID
}

func TestOrderHandler_Open(t *testing.T) {
	t.Run("creates editing draft", func(t *testing.T) {
		engine := newOrderTestServer(t, &stubGateway{})

		w := doJSON(engine, http.MethodPost, "/api/v1/orders/drafts", gin.H{"product_id": 7})

		require.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Success)
		assert.Equal(t, "editing", env.Data.State)
		assert.True(t, env.Data.TotalPrice.Equal(decimal.NewFromFloat(350.0)))
	})

	t.Run("unknown product", func(t *testing.T) {
		engine := newOrderTestServer(t, &stubGateway{})

		w := doJSON(engine, http.MethodPost, "/api/v1/orders/drafts", gin.H{"product_id": 999})

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "ERR_NOT_FOUND", env.Error.Code)
	})

	t.Run("missing product id", func(t *testing.T) {
		engine := newOrderTestServer(t, &stubGateway{})

		w := doJSON(engine, http.MethodPost, "/api/v1/orders/drafts", gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_Update(t *testing.T) {
	engine := newOrderTestServer(t, &stubGateway{})
	sessionID := openDraft(t, engine)

	w := doJSON(engine, http.MethodPatch, "/api/v1/orders/drafts/"+sessionID, gin.H{
		"quantity_sqm": "2.5",
	})

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Data.TotalPrice.Equal(decimal.NewFromFloat(875.0)),
		"got %s", env.Data.TotalPrice)

	t.Run("bad session id", func(t *testing.T) {
		w := doJSON(engine, http.MethodPatch, "/api/v1/orders/drafts/not-a-uuid", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_Submit(t *testing.T) {
	t.Run("incomplete draft reports every field", func(t *testing.T) {
		gateway := &stubGateway{}
		engine := newOrderTestServer(t, gateway)
		sessionID := openDraft(t, engine)

		w := doJSON(engine, http.MethodPost, fmt.Sprintf("/api/v1/orders/drafts/%s/submit", sessionID), nil)

		require.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "ERR_VALIDATION", env.Error.Code)
		assert.Len(t, env.Error.Details, 3)
		assert.Zero(t, gateway.calls)
	})

	t.Run("complete draft submits", func(t *testing.T) {
		gateway := &stubGateway{result: &order.Result{
			OrderID:    42,
			Status:     "pending",
			TotalPrice: decimal.NewFromFloat(875.0),
		}}
		engine := newOrderTestServer(t, gateway)
		sessionID := openDraft(t, engine)

		w := doJSON(engine, http.MethodPatch, "/api/v1/orders/drafts/"+sessionID, gin.H{
			"customer_name":  "Ivan Petrov",
			"customer_email": "ivan@example.com",
			"customer_phone": "+79990000000",
			"quantity_sqm":   "2.5",
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(engine, http.MethodPost, fmt.Sprintf("/api/v1/orders/drafts/%s/submit", sessionID), nil)

		require.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, int64(42), env.Data.OrderID)
		assert.Equal(t, "pending", env.Data.Status)
		assert.Equal(t, 1, gateway.calls)

		// Session is gone after a successful submit
		w = doJSON(engine, http.MethodGet, "/api/v1/orders/drafts/"+sessionID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("upstream failure maps to bad gateway", func(t *testing.T) {
		gateway := &stubGateway{err: errors.New("connection refused")}
		engine := newOrderTestServer(t, gateway)
		sessionID := openDraft(t, engine)

		w := doJSON(engine, http.MethodPatch, "/api/v1/orders/drafts/"+sessionID, gin.H{
			"customer_name":  "Ivan Petrov",
			"customer_email": "ivan@example.com",
			"customer_phone": "+79990000000",
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(engine, http.MethodPost, fmt.Sprintf("/api/v1/orders/drafts/%s/submit", sessionID), nil)

		require.Equal(t, http.StatusBadGateway, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "ERR_UPSTREAM_FAILURE", env.Error.Code)

		// Draft survives with its fields for a retry
		w = doJSON(engine, http.MethodGet, "/api/v1/orders/drafts/"+sessionID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		env = decodeEnvelope(t, w)
		assert.Equal(t, "editing", env.Data.State)
		assert.True(t, env.Data.SubmissionError)
	})
}

func TestOrderHandler_Cancel(t *testing.T) {
	engine := newOrderTestServer(t, &stubGateway{})
	sessionID := openDraft(t, engine)

	w := doJSON(engine, http.MethodDelete, "/api/v1/orders/drafts/"+sessionID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(engine, http.MethodGet, "/api/v1/orders/drafts/"+sessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

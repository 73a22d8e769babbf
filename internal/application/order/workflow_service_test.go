package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/buildmart/storefront/internal/domain/catalog"
	"github.com/buildmart/storefront/internal/domain/order"
	"github.com/buildmart/storefront/internal/domain/shared"
)

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) ListProducts(ctx context.Context, offset, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockDirectory) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateOrder(ctx context.Context, submission *order.Submission) (*order.Result, error) {
	args := m.Called(ctx, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Result), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) OrderSubmitted(ctx context.Context, submission *order.Submission, result *order.Result) {
	m.Called(ctx, submission, result)
}

func (m *mockNotifier) OrderFailed(ctx context.Context, submission *order.Submission, reason string) {
	m.Called(ctx, submission, reason)
}

func (m *mockNotifier) ContactReceived(ctx context.Context, name, email, phone, message string) {
	m.Called(ctx, name, email, phone, message)
}

func testProduct(t *testing.T) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(7, "Granite Slab", decimal.NewFromFloat(350.0))
	require.NoError(t, err)
	return product
}

func newTestService(t *testing.T) (*WorkflowService, *mockDirectory, *mockGateway, *mockNotifier) {
	t.Helper()
	directory := new(mockDirectory)
	gateway := new(mockGateway)
	notifier := new(mockNotifier)
	svc := NewWorkflowService(directory, gateway, notifier, nil,
		WithSweepInterval(time.Hour))
	t.Cleanup(func() { _ = svc.Close() })
	return svc, directory, gateway, notifier
}

func strPtr(s string) *string { return &s }

func fillDraft(t *testing.T, svc *WorkflowService, sessionID uuid.UUID) {
	t.Helper()
	qty := decimal.NewFromFloat(2.5)
	_, err := svc.Update(sessionID, UpdateDraftRequest{
		CustomerName:  strPtr("Ivan Petrov"),
		CustomerEmail: strPtr("ivan@example.com"),
		CustomerPhone: strPtr("+79990000000"),
		QuantitySqm:   &qty,
	})
	require.NoError(t, err)
}

func TestWorkflowService_Open(t *testing.T) {
	t.Run("opens editing draft with defaults", func(t *testing.T) {
		svc, directory, _, _ := newTestService(t)
		directory.On("GetProduct", mock.Anything, int64(7)).Return(testProduct(t), nil)

		resp, err := svc.Open(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, string(order.StateEditing), resp.State)
		assert.NotEmpty(t, resp.SessionID)
		assert.Equal(t, int64(7), resp.Product.ID)
		assert.True(t, resp.QuantitySqm.Equal(decimal.NewFromInt(1)))
		assert.True(t, resp.TotalPrice.Equal(decimal.NewFromFloat(350.0)))
		assert.Equal(t, 1, svc.SessionCount())
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, directory, _, _ := newTestService(t)
		directory.On("GetProduct", mock.Anything, int64(99)).Return(nil, shared.ErrNotFound)

		resp, err := svc.Open(context.Background(), 99)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, 0, svc.SessionCount())
	})
}

func TestWorkflowService_Update(t *testing.T) {
	svc, directory, _, _ := newTestService(t)
	directory.On("GetProduct", mock.Anything, int64(7)).Return(testProduct(t), nil)

	resp, err := svc.Open(context.Background(), 7)
	require.NoError(t, err)
	sessionID := uuid.MustParse(resp.SessionID)

	t.Run("quantity change reprices", func(t *testing.T) {
		qty := decimal.NewFromFloat(2.5)
		updated, err := svc.Update(sessionID, UpdateDraftRequest{QuantitySqm: &qty})

		require.NoError(t, err)
		assert.True(t, updated.TotalPrice.Equal(decimal.NewFromFloat(875.0)),
			"got %s", updated.TotalPrice)
	})

	t.Run("absent fields are untouched", func(t *testing.T) {
		updated, err := svc.Update(sessionID, UpdateDraftRequest{
			CustomerName: strPtr("Ivan Petrov"),
		})

		require.NoError(t, err)
		assert.Equal(t, "Ivan Petrov", updated.CustomerName)
		assert.True(t, updated.QuantitySqm.Equal(decimal.NewFromFloat(2.5)))
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.Update(uuid.New(), UpdateDraftRequest{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestWorkflowService_Submit(t *testing.T) {
	t.Run("submits exact payload and clears session", func(t *testing.T) {
		svc, directory, gateway, notifier := newTestService(t)
		directory.On("GetProduct", mock.Anything, int64(7)).Return(testProduct(t), nil)

		resp, err := svc.Open(context.Background(), 7)
		require.NoError(t, err)
		sessionID := uuid.MustParse(resp.SessionID)
		fillDraft(t, svc, sessionID)

		result := &order.Result{
			OrderID:    42,
			Status:     "pending",
			TotalPrice: decimal.NewFromFloat(875.0),
			CreatedAt:  time.Now(),
		}
		gateway.On("CreateOrder", mock.Anything, mock.MatchedBy(func(s *order.Submission) bool {
			return s.ProductID == 7 &&
				s.QuantitySqm.Equal(decimal.NewFromFloat(2.5)) &&
				s.CustomerName == "Ivan Petrov" &&
				s.Source == order.SourceWebsite
		})).Return(result, nil)
		notifier.On("OrderSubmitted", mock.Anything, mock.Anything, result).Return()

		submitted, err := svc.Submit(context.Background(), sessionID)

		require.NoError(t, err)
		assert.Equal(t, int64(42), submitted.OrderID)
		assert.Equal(t, "pending", submitted.Status)
		assert.True(t, submitted.TotalPrice.Equal(decimal.NewFromFloat(875.0)))

		_, err = svc.Get(sessionID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		gateway.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("validation failure issues no request", func(t *testing.T) {
		svc, directory, gateway, _ := newTestService(t)
		directory.On("GetProduct", mock.Anything, int64(7)).Return(testProduct(t), nil)

		resp, err := svc.Open(context.Background(), 7)
		require.NoError(t, err)
		sessionID := uuid.MustParse(resp.SessionID)

		_, err = svc.Submit(context.Background(), sessionID)

		var fieldErrs order.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.NotEmpty(t, fieldErrs)

		current, err := svc.Get(sessionID)
		require.NoError(t, err)
		assert.Equal(t, string(order.StateEditing), current.State)
		assert.NotEmpty(t, current.FieldErrors)
		gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("upstream failure retains fields for retry", func(t *testing.T) {
		svc, directory, gateway, notifier := newTestService(t)
		directory.On("GetProduct", mock.Anything, int64(7)).Return(testProduct(t), nil)

		resp, err := svc.Open(context.Background(), 7)
		require.NoError(t, err)
		sessionID := uuid.MustParse(resp.SessionID)
		fillDraft(t, svc, sessionID)

		gateway.On("CreateOrder", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused")).Once()
		notifier.On("OrderFailed", mock.Anything, mock.Anything, mock.Anything).Return()

		_, err = svc.Submit(context.Background(), sessionID)
		assert.ErrorIs(t, err, shared.ErrUpstreamFailure)

		current, err := svc.Get(sessionID)
		require.NoError(t, err)
		assert.Equal(t, string(order.StateEditing), current.State)
		assert.True(t, current.SubmissionError)
		assert.Equal(t, "Ivan Petrov", current.CustomerName)
		assert.True(t, current.QuantitySqm.Equal(decimal.NewFromFloat(2.5)))

		result := &order.Result{OrderID: 43, Status: "pending"}
		gateway.On("CreateOrder", mock.Anything, mock.Anything).Return(result, nil).Once()
		notifier.On("OrderSubmitted", mock.Anything, mock.Anything, result).Return()

		submitted, err := svc.Submit(context.Background(), sessionID)
		require.NoError(t, err)
		assert.Equal(t, int64(43), submitted.OrderID)
	})

	t.Run("concurrent submits issue one request", func(t *testing.T) {
		svc, directory, gateway, notifier := newTestService(t)
		directory.On("GetProduct", mock.Anything, int64(7)).Return(testProduct(t), nil)

		resp, err := svc.Open(context.Background(), 7)
		require.NoError(t, err)
		sessionID := uuid.MustParse(resp.SessionID)
		fillDraft(t, svc, sessionID)

		inFlight := make(chan struct{})
		release := make(chan struct{})
		result := &order.Result{OrderID: 44, Status: "pending"}
		gateway.On("CreateOrder", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				close(inFlight)
				<-release
			}).Return(result, nil).Once()
		notifier.On("OrderSubmitted", mock.Anything, mock.Anything, result).Return()

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(context.Background(), sessionID)
			assert.NoError(t, err)
		}()

		<-inFlight
		_, err = svc.Submit(context.Background(), sessionID)
		assert.ErrorIs(t, err, shared.ErrSubmitInFlight)

		err = svc.Cancel(sessionID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)

		close(release)
		wg.Wait()

		gateway.AssertNumberOfCalls(t, "CreateOrder", 1)
	})
}

func TestWorkflowService_Cancel(t *testing.T) {
	svc, directory, _, _ := newTestService(t)
	directory.On("GetProduct", mock.Anything, int64(7)).Return(testProduct(t), nil)

	resp, err := svc.Open(context.Background(), 7)
	require.NoError(t, err)
	sessionID := uuid.MustParse(resp.SessionID)

	require.NoError(t, svc.Cancel(sessionID))
	assert.Equal(t, 0, svc.SessionCount())

	_, err = svc.Get(sessionID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestWorkflowService_SweepExpired(t *testing.T) {
	directory := new(mockDirectory)
	gateway := new(mockGateway)
	notifier := new(mockNotifier)
	svc := NewWorkflowService(directory, gateway, notifier, nil,
		WithSessionTTL(10*time.Millisecond),
		WithSweepInterval(10*time.Millisecond))
	defer func() { _ = svc.Close() }()

	directory.On("GetProduct", mock.Anything, int64(7)).Return(testProduct(t), nil)
	_, err := svc.Open(context.Background(), 7)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return svc.SessionCount() == 0
	}, time.Second, 10*time.Millisecond)
}

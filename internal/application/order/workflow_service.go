package order

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/buildmart/storefront/internal/domain/catalog"
	"github.com/buildmart/storefront/internal/domain/order"
	"github.com/buildmart/storefront/internal/domain/shared"
)

const defaultSweepInterval = 5 * time.Minute

// WorkflowService owns order drafts for the duration of one submission
// each. One session holds one draft for one product; the draft's Submitting
// state guards the single outstanding upstream request per draft.
type WorkflowService struct {
	directory catalog.Directory
	gateway   order.Gateway
	notifier  order.Notifier
	logger    *zap.Logger

	source        string
	sessionTTL    time.Duration
	sweepInterval time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*session

	stopCh chan struct{}
	once   sync.Once
}

// session pairs a draft with its own lock. State transitions for one draft
// are serialized through this lock; the upstream call itself runs outside
// it so a concurrent submit is rejected immediately instead of queueing.
type session struct {
	mu        sync.Mutex
	draft     *order.Draft
	touchedAt time.Time
}

// WorkflowOption is a functional option for configuring the service
type WorkflowOption func(*WorkflowService)

// WithSource sets the channel tag stamped on submissions
func WithSource(source string) WorkflowOption {
	return func(s *WorkflowService) {
		s.source = source
	}
}

// WithSessionTTL sets how long an untouched editing session survives
func WithSessionTTL(ttl time.Duration) WorkflowOption {
	return func(s *WorkflowService) {
		s.sessionTTL = ttl
	}
}

// WithSweepInterval sets how often expired sessions are collected
func WithSweepInterval(interval time.Duration) WorkflowOption {
	return func(s *WorkflowService) {
		s.sweepInterval = interval
	}
}

// NewWorkflowService creates the order workflow controller
func NewWorkflowService(
	directory catalog.Directory,
	gateway order.Gateway,
	notifier order.Notifier,
	logger *zap.Logger,
	opts ...WorkflowOption,
) *WorkflowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &WorkflowService{
		directory:     directory,
		gateway:       gateway,
		notifier:      notifier,
		logger:        logger,
		source:        order.SourceWebsite,
		sessionTTL:    30 * time.Minute,
		sweepInterval: defaultSweepInterval,
		sessions:      make(map[uuid.UUID]*session),
		stopCh:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.sweepExpired()

	return s
}

// Close stops the session janitor
func (s *WorkflowService) Close() error {
	s.once.Do(func() {
		close(s.stopCh)
	})
	return nil
}

// Open fetches the product and opens a draft in the Editing state.
func (s *WorkflowService) Open(ctx context.Context, productID int64) (*DraftResponse, error) {
	product, err := s.directory.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.New()
	draft, err := order.OpenDraft(sessionID, product, s.source)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[sessionID] = &session{draft: draft, touchedAt: time.Now()}
	s.mu.Unlock()

	s.logger.Debug("order draft opened",
		zap.String("session_id", sessionID.String()),
		zap.Int64("product_id", productID),
	)

	return toDraftResponse(sessionID.String(), draft), nil
}

// Get returns the current state of a draft.
func (s *WorkflowService) Get(sessionID uuid.UUID) (*DraftResponse, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return toDraftResponse(sessionID.String(), sess.draft), nil
}

// Update applies field mutations to an open draft and reprices it.
func (s *WorkflowService) Update(sessionID uuid.UUID, req UpdateDraftRequest) (*DraftResponse, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	draft := sess.draft
	if req.CustomerName != nil || req.CustomerEmail != nil || req.CustomerPhone != nil {
		name := draft.CustomerName
		email := draft.CustomerEmail
		phone := draft.CustomerPhone
		if req.CustomerName != nil {
			name = *req.CustomerName
		}
		if req.CustomerEmail != nil {
			email = *req.CustomerEmail
		}
		if req.CustomerPhone != nil {
			phone = *req.CustomerPhone
		}
		if err := draft.SetCustomer(name, email, phone); err != nil {
			return nil, err
		}
	}
	if req.Message != nil {
		if err := draft.SetMessage(*req.Message); err != nil {
			return nil, err
		}
	}
	if req.QuantitySqm != nil {
		if err := draft.SetQuantity(*req.QuantitySqm); err != nil {
			return nil, err
		}
	}

	sess.touchedAt = time.Now()
	return toDraftResponse(sessionID.String(), draft), nil
}

// Submit validates the draft and issues at most one upstream create-order
// request. Validation failures return FieldErrors with the draft back in
// Editing; a submit while another is in flight returns
// shared.ErrSubmitInFlight without touching the network.
func (s *WorkflowService) Submit(ctx context.Context, sessionID uuid.UUID) (*SubmitResponse, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	submission, err := sess.draft.BeginSubmit()
	sess.mu.Unlock()
	if err != nil {
		return nil, err
	}

	// The draft is now Submitting; run the single upstream call outside the
	// session lock so concurrent submits fail fast instead of queueing.
	result, submitErr := s.gateway.CreateOrder(ctx, submission)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if submitErr != nil {
		if err := sess.draft.FailSubmit(); err != nil {
			s.logger.Error("draft refused failure transition",
				zap.String("session_id", sessionID.String()), zap.Error(err))
		}
		sess.touchedAt = time.Now()

		s.logger.Warn("order submission failed",
			zap.String("session_id", sessionID.String()),
			zap.Int64("product_id", submission.ProductID),
			zap.Error(submitErr),
		)
		s.notifier.OrderFailed(ctx, submission, submitErr.Error())

		return nil, &shared.DomainError{
			Code:    shared.ErrUpstreamFailure.Code,
			Message: "The order could not be submitted. Please try again.",
		}
	}

	if err := sess.draft.CompleteSubmit(); err != nil {
		s.logger.Error("draft refused completion transition",
			zap.String("session_id", sessionID.String()), zap.Error(err))
	}

	// Draft is cleared; drop the session so the workflow returns to Idle.
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	s.logger.Info("order submitted",
		zap.String("session_id", sessionID.String()),
		zap.Int64("order_id", result.OrderID),
		zap.String("status", result.Status),
	)
	s.notifier.OrderSubmitted(ctx, submission, result)

	return &SubmitResponse{
		OrderID:    result.OrderID,
		Status:     result.Status,
		TotalPrice: result.TotalPrice,
		CreatedAt:  result.CreatedAt,
	}, nil
}

// Cancel discards a draft. Rejected while a submission is in flight.
func (s *WorkflowService) Cancel(sessionID uuid.UUID) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	err = sess.draft.Cancel()
	sess.mu.Unlock()
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// SessionCount returns the number of live sessions
func (s *WorkflowService) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *WorkflowService) lookup(sessionID uuid.UUID) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return sess, nil
}

// sweepExpired discards editing sessions untouched for longer than the TTL.
// Expiry is equivalent to cancel; a session with a submission in flight is
// left alone until the outstanding request resolves.
func (s *WorkflowService) sweepExpired() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.sessionTTL)

			s.mu.Lock()
			expired := make([]uuid.UUID, 0)
			for id, sess := range s.sessions {
				if sess.touchedAt.Before(cutoff) {
					expired = append(expired, id)
				}
			}
			s.mu.Unlock()

			for _, id := range expired {
				sess, err := s.lookup(id)
				if err != nil {
					continue
				}
				sess.mu.Lock()
				cancelErr := sess.draft.Cancel()
				sess.mu.Unlock()
				if errors.Is(cancelErr, shared.ErrInvalidState) {
					continue
				}

				s.mu.Lock()
				delete(s.sessions, id)
				s.mu.Unlock()
				s.logger.Debug("expired order session discarded", zap.String("session_id", id.String()))
			}
		}
	}
}

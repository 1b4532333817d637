package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Vision-Tey/scandi-shop-client/internal/domain"
	"github.com/Vision-Tey/scandi-shop-client/internal/history"
)

// ErrSubmissionFailed wraps every backend rejection or transport failure.
// The caller keeps the cart and form state intact so the shopper can retry.
var ErrSubmissionFailed = errors.New("order submission failed")

type backend interface {
	CreateOrder(ctx context.Context, draft *domain.OrderDraft) (string, error)
}

type eventPublisher interface {
	PublishConfirmed(ctx context.Context, orderID, sessionID string, draft *domain.OrderDraft) error
}

type historyRecorder interface {
	RecordOrder(ctx context.Context, rec *history.Record) error
}

// Service submits drafts to the order backend. Publisher and recorder are
// optional; both run best-effort after the backend acknowledged.
type Service struct {
	backend   backend
	publisher eventPublisher
	history   historyRecorder
	logger    *zap.Logger
	sfg       singleflight.Group // one in-flight submit per session
}

func NewService(backend backend, publisher eventPublisher, recorder historyRecorder, logger *zap.Logger) *Service {
	return &Service{
		backend:   backend,
		publisher: publisher,
		history:   recorder,
		logger:    logger,
	}
}

// Submit sends the draft to the order backend. Concurrent submits for the
// same session collapse into a single backend request, so double clicks
// cannot create duplicate orders.
func (s *Service) Submit(ctx context.Context, sessionID string, draft *domain.OrderDraft) (string, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		ack, err := s.backend.CreateOrder(ctx, draft)
		if err != nil {
			s.logger.Error("order submission failed",
				zap.String("session_id", sessionID),
				zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
		}

		orderID := uuid.NewString()
		s.logger.Info("order acknowledged",
			zap.String("session_id", sessionID),
			zap.String("order_id", orderID),
			zap.String("backend_ref", ack),
			zap.Float64("total_price", draft.TotalPrice))

		if s.publisher != nil {
			if errPub := s.publisher.PublishConfirmed(ctx, orderID, sessionID, draft); errPub != nil {
				s.logger.Warn("order event publish failed", zap.Error(errPub))
			}
		}

		if s.history != nil {
			rec := &history.Record{
				ID:              orderID,
				SessionID:       sessionID,
				BackendRef:      ack,
				CustomerName:    draft.CustomerName,
				CustomerEmail:   draft.CustomerEmail,
				CustomerAddress: draft.CustomerAddress,
				Status:          draft.Status,
				TotalPrice:      draft.TotalPrice,
				Lines:           draft.Lines,
				CreatedAt:       time.Now().UTC(),
			}
			if errRec := s.history.RecordOrder(ctx, rec); errRec != nil {
				s.logger.Warn("order history record failed", zap.Error(errRec))
			}
		}

		return orderID, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

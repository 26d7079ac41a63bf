package whatsapp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/application/orders"
	"github.com/storehub/backend/internal/domain/order"
)

// Service manages manually captured orders: staging, editing and promotion
// into the ledger under the manual store sentinel.
type Service struct {
	staged   order.StagedRepository
	ledger   order.Ledger
	notifier *orders.ChangeNotifier
	logger   *zap.Logger
}

// NewService creates a manual order service
func NewService(staged order.StagedRepository, ledger order.Ledger, notifier *orders.ChangeNotifier, logger *zap.Logger) *Service {
	return &Service{
		staged:   staged,
		ledger:   ledger,
		notifier: notifier,
		logger:   logger,
	}
}

// Stage stores a captured order for later review.
func (s *Service) Stage(ctx context.Context, staged *order.StagedOrder) (*order.StagedOrder, error) {
	if staged.ID == "" {
		staged.ID = uuid.NewString()
	}
	if staged.CreatedAt.IsZero() {
		staged.CreatedAt = time.Now()
	}
	if err := s.staged.Save(ctx, staged); err != nil {
		return nil, err
	}
	return staged, nil
}

// List returns all staged orders awaiting promotion.
func (s *Service) List(ctx context.Context) ([]order.StagedOrder, error) {
	return s.staged.FindAll(ctx)
}

// Update overwrites a staged order in place.
func (s *Service) Update(ctx context.Context, staged *order.StagedOrder) error {
	if _, err := s.staged.FindByID(ctx, staged.ID); err != nil {
		return err
	}
	return s.staged.Save(ctx, staged)
}

// Discard drops a staged order without promoting it.
func (s *Service) Discard(ctx context.Context, id string) error {
	return s.staged.Delete(ctx, id)
}

// Promote converts a staged order into a ledger order and removes it from
// staging. Promoted orders exist only in the ledger; no remote store is
// involved.
func (s *Service) Promote(ctx context.Context, id string) (*order.Order, error) {
	staged, err := s.staged.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	promoted, err := staged.Promote()
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Insert(ctx, []order.Order{*promoted}); err != nil {
		return nil, err
	}
	if err := s.staged.Delete(ctx, id); err != nil {
		// The order is in the ledger; a stale staging row is recoverable.
		s.logger.Warn("promoted order left in staging",
			zap.String("staged_id", id),
			zap.Error(err),
		)
	}

	s.notifier.Notify(promoted.StoreID)
	s.logger.Info("manual order promoted",
		zap.String("staged_id", id),
		zap.String("order_id", promoted.ID),
	)
	return promoted, nil
}

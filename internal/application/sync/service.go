package sync

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/storehub/backend/internal/application/orders"
	"github.com/storehub/backend/internal/domain/order"
	"github.com/storehub/backend/internal/domain/remote"
	"github.com/storehub/backend/internal/domain/store"
)

// ErrAllStoresFailed is returned when at least one store was configured and
// every one of them failed to sync. An empty registry is not an error.
var ErrAllStoresFailed = errors.New("sync: every store failed to sync")

// StoreResult is the outcome of syncing one store.
type StoreResult struct {
	StoreID    string `json:"storeId"`
	StoreName  string `json:"storeName"`
	OrderCount int    `json:"orderCount"`
	Error      string `json:"error,omitempty"`
}

// Report summarizes one reconciliation pass.
type Report struct {
	StartedAt   time.Time     `json:"startedAt"`
	Duration    time.Duration `json:"duration"`
	StoreCount  int           `json:"storeCount"`
	OrderCount  int           `json:"orderCount"`
	FailedCount int           `json:"failedCount"`
	Results     []StoreResult `json:"results"`
}

// Service reconciles the ledger against the remote stores. Stores sync
// sequentially; one store's failure never aborts the others. Each
// successful store swaps its full ledger snapshot and stamps the store
// connected with a fresh last-sync time, while a failed store is stamped
// disconnected and keeps its previous orders.
type Service struct {
	stores   store.Repository
	ledger   order.Ledger
	gateway  remote.Gateway
	notifier *orders.ChangeNotifier
	pageSize int
	logger   *zap.Logger
}

// NewService creates a sync service
func NewService(stores store.Repository, ledger order.Ledger, gateway remote.Gateway, notifier *orders.ChangeNotifier, pageSize int, logger *zap.Logger) *Service {
	return &Service{
		stores:   stores,
		ledger:   ledger,
		gateway:  gateway,
		notifier: notifier,
		pageSize: pageSize,
		logger:   logger,
	}
}

// SyncAll reconciles every registered store. With an empty registry it
// returns an empty report and no error; when every configured store fails
// it returns the report together with ErrAllStoresFailed.
func (s *Service) SyncAll(ctx context.Context) (*Report, error) {
	started := time.Now()

	stores, err := s.stores.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		StartedAt:  started,
		StoreCount: len(stores),
		Results:    make([]StoreResult, 0, len(stores)),
	}

	for i := range stores {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := s.syncOne(ctx, &stores[i])
		report.Results = append(report.Results, result)
		if result.Error != "" {
			report.FailedCount++
			continue
		}
		report.OrderCount += result.OrderCount
	}

	report.Duration = time.Since(started)

	if len(stores) > 0 && report.FailedCount == len(stores) {
		return report, ErrAllStoresFailed
	}
	return report, nil
}

// SyncStore reconciles a single store by id.
func (s *Service) SyncStore(ctx context.Context, storeID string) (*StoreResult, error) {
	st, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	result := s.syncOne(ctx, st)
	return &result, nil
}

func (s *Service) syncOne(ctx context.Context, st *store.Store) StoreResult {
	result := StoreResult{StoreID: st.ID, StoreName: st.Name}

	fetched, err := s.gateway.ListOrders(ctx, st, s.pageSize)
	if err != nil {
		s.logger.Warn("store sync failed",
			zap.String("store_id", st.ID),
			zap.String("store", st.Name),
			zap.Error(err),
		)
		result.Error = err.Error()
		s.stamp(ctx, st, false)
		return result
	}

	if err := s.ledger.ReplaceForStore(ctx, st.ID, fetched); err != nil {
		result.Error = err.Error()
		return result
	}

	result.OrderCount = len(fetched)
	s.stamp(ctx, st, true)
	s.notifier.Notify(st.ID)

	s.logger.Info("store synced",
		zap.String("store_id", st.ID),
		zap.String("store", st.Name),
		zap.Int("orders", len(fetched)),
	)
	return result
}

// stamp updates the connectivity flag and, on success, the last-sync time.
// A stamping failure is logged but never fails the sync itself.
func (s *Service) stamp(ctx context.Context, st *store.Store, ok bool) {
	update := store.Update{Connected: &ok}
	if ok {
		now := time.Now()
		update.LastSync = &now
	}
	st.Apply(update)
	if err := s.stores.Save(ctx, st); err != nil {
		s.logger.Warn("failed to stamp store sync state",
			zap.String("store_id", st.ID),
			zap.Error(err),
		)
	}
}

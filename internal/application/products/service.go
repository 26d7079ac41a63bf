package products

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/catalog"
	"github.com/storehub/backend/internal/domain/remote"
	"github.com/storehub/backend/internal/domain/store"
	"github.com/storehub/backend/internal/infrastructure/cache"
)

// ErrAllStoresFailed is returned when products could be fetched from none
// of the configured stores.
var ErrAllStoresFailed = errors.New("products: every store failed to respond")

// FetchResult is the outcome of a cross-store product fetch.
type FetchResult struct {
	Products []catalog.Product `json:"products"`
	// Failed lists stores that did not respond; their products are simply
	// absent from the result.
	Failed []string `json:"failed,omitempty"`
	Cached bool     `json:"cached"`
}

// Service serves products straight from the remote stores. Nothing is
// persisted locally: a short-lived session cache avoids refetching, and
// every mutation is written through to the owning store and invalidates
// the cache.
type Service struct {
	stores   store.Repository
	gateway  remote.Gateway
	cache    cache.ProductCache
	pageSize int
	logger   *zap.Logger
}

// NewService creates a product service
func NewService(stores store.Repository, gateway remote.Gateway, productCache cache.ProductCache, pageSize int, logger *zap.Logger) *Service {
	return &Service{
		stores:   stores,
		gateway:  gateway,
		cache:    productCache,
		pageSize: pageSize,
		logger:   logger,
	}
}

// FetchAll returns products from every store, serving the session cache
// when warm. A store that fails to respond is reported in Failed while the
// other stores' products are still returned; only a total failure is an
// error.
func (s *Service) FetchAll(ctx context.Context) (*FetchResult, error) {
	if cached, ok, err := s.cache.Get(ctx); err == nil && ok {
		return &FetchResult{Products: cached, Cached: true}, nil
	} else if err != nil {
		s.logger.Warn("product cache read failed", zap.Error(err))
	}

	stores, err := s.stores.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &FetchResult{Products: make([]catalog.Product, 0)}
	for i := range stores {
		fetched, err := s.gateway.ListProducts(ctx, &stores[i], s.pageSize)
		if err != nil {
			s.logger.Warn("product fetch failed",
				zap.String("store", stores[i].Name),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, stores[i].Name)
			continue
		}
		result.Products = append(result.Products, fetched...)
	}

	if len(stores) > 0 && len(result.Failed) == len(stores) {
		return result, ErrAllStoresFailed
	}

	if err := s.cache.Set(ctx, result.Products); err != nil {
		s.logger.Warn("product cache write failed", zap.Error(err))
	}
	return result, nil
}

// BatchUpdate pushes product patches grouped by owning store. Each store
// receives one batch envelope that succeeds or fails as a whole. Any
// accepted batch invalidates the session cache.
func (s *Service) BatchUpdate(ctx context.Context, patches []catalog.Patch) (successCount, errorCount int, err error) {
	byStore := make(map[string][]catalog.Patch)
	for _, p := range patches {
		byStore[p.StoreID] = append(byStore[p.StoreID], p)
	}

	var anyAccepted bool
	for storeID, partition := range byStore {
		st, err := s.stores.FindByID(ctx, storeID)
		if err != nil {
			errorCount += len(partition)
			continue
		}
		if err := s.gateway.BatchUpdateProducts(ctx, st, partition); err != nil {
			s.logger.Warn("product batch update failed",
				zap.String("store", st.Name),
				zap.Error(err),
			)
			errorCount += len(partition)
			continue
		}
		successCount += len(partition)
		anyAccepted = true
	}

	if anyAccepted {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("product cache invalidation failed", zap.Error(err))
		}
	}
	return successCount, errorCount, nil
}

// BatchDelete removes products grouped by owning store.
func (s *Service) BatchDelete(ctx context.Context, keys []catalog.Key) (successCount, errorCount int, err error) {
	byStore := make(map[string][]int64)
	for _, k := range keys {
		byStore[k.StoreID] = append(byStore[k.StoreID], k.ID)
	}

	var anyAccepted bool
	for storeID, ids := range byStore {
		st, err := s.stores.FindByID(ctx, storeID)
		if err != nil {
			errorCount += len(ids)
			continue
		}
		if err := s.gateway.BatchDeleteProducts(ctx, st, ids); err != nil {
			s.logger.Warn("product batch delete failed",
				zap.String("store", st.Name),
				zap.Error(err),
			)
			errorCount += len(ids)
			continue
		}
		successCount += len(ids)
		anyAccepted = true
	}

	if anyAccepted {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("product cache invalidation failed", zap.Error(err))
		}
	}
	return successCount, errorCount, nil
}

// Refresh drops the session cache so the next fetch hits the stores.
func (s *Service) Refresh(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}

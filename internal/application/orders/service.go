package orders

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/order"
	"github.com/storehub/backend/internal/domain/remote"
	"github.com/storehub/backend/internal/domain/store"
)

// Service serves and mutates the order ledger. Remote-backed orders are
// updated write-through: the remote store is patched first and the ledger
// only after the remote accepted the change. Manual orders have no remote
// backing and are patched locally only.
type Service struct {
	ledger   order.Ledger
	stores   store.Repository
	gateway  remote.Gateway
	notifier *ChangeNotifier
	logger   *zap.Logger
}

// NewService creates an order service
func NewService(ledger order.Ledger, stores store.Repository, gateway remote.Gateway, notifier *ChangeNotifier, logger *zap.Logger) *Service {
	return &Service{
		ledger:   ledger,
		stores:   stores,
		gateway:  gateway,
		notifier: notifier,
		logger:   logger,
	}
}

// List returns every ledger order except trashed ones.
func (s *Service) List(ctx context.Context) ([]order.Order, error) {
	all, err := s.ledger.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]order.Order, 0, len(all))
	for _, o := range all {
		if o.Status != order.StatusTrash {
			active = append(active, o)
		}
	}
	return active, nil
}

// ListTrashed returns the soft-deleted orders.
func (s *Service) ListTrashed(ctx context.Context) ([]order.Order, error) {
	all, err := s.ledger.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	trashed := make([]order.Order, 0)
	for _, o := range all {
		if o.Status == order.StatusTrash {
			trashed = append(trashed, o)
		}
	}
	return trashed, nil
}

// Get finds one ledger order by id
func (s *Service) Get(ctx context.Context, id string) (*order.Order, error) {
	return s.ledger.FindByID(ctx, id)
}

// Patch merges a field patch into one order. For remote-backed orders the
// owning store is patched first; the ledger is only touched after the
// remote accepted the change, so a failed remote write leaves the ledger
// unchanged.
func (s *Service) Patch(ctx context.Context, id string, patch order.FieldPatch) (*order.Order, error) {
	o, err := s.ledger.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.StoreID != store.ManualStoreID {
		st, err := s.stores.FindByID(ctx, o.StoreID)
		if err != nil {
			return nil, err
		}
		if _, err := s.gateway.UpdateOrder(ctx, st, o.ID, patch); err != nil {
			return nil, err
		}
	}

	if err := s.ledger.PatchOne(ctx, o.StoreID, id, patch); err != nil {
		return nil, err
	}

	s.notifier.Notify(o.StoreID)
	return s.ledger.FindByID(ctx, id)
}

// Trash soft-deletes the listed orders. Trash is a ledger-only status and
// is never pushed to the remote stores; a second trash of the same ids is
// a no-op.
func (s *Service) Trash(ctx context.Context, ids []string) error {
	if err := s.setStatusByStore(ctx, ids, order.StatusTrash); err != nil {
		return err
	}
	s.notifier.Notify("")
	return nil
}

// Restore moves trashed orders back into circulation as processing.
func (s *Service) Restore(ctx context.Context, ids []string) error {
	if err := s.setStatusByStore(ctx, ids, order.StatusProcessing); err != nil {
		return err
	}
	s.notifier.Notify("")
	return nil
}

// setStatusByStore resolves each id to its owning store and issues one
// scoped status update per store. Ids the ledger does not know are
// ignored, which is what makes a repeated trash a no-op.
func (s *Service) setStatusByStore(ctx context.Context, ids []string, status order.Status) error {
	all, err := s.ledger.FindAll(ctx)
	if err != nil {
		return err
	}

	owner := make(map[string]string, len(all))
	for _, o := range all {
		owner[o.ID] = o.StoreID
	}

	groups := make(map[string][]string)
	for _, id := range ids {
		storeID, ok := owner[id]
		if !ok {
			continue
		}
		groups[storeID] = append(groups[storeID], id)
	}

	for storeID, group := range groups {
		if err := s.ledger.BatchSetStatus(ctx, storeID, group, status); err != nil {
			return err
		}
	}
	return nil
}

// Notifier exposes the change notifier for observer registration.
func (s *Service) Notifier() *ChangeNotifier {
	return s.notifier
}

// IsNotFound reports whether err means the order does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, order.ErrNotFound)
}

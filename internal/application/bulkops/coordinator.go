package bulkops

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/storehub/backend/internal/application/orders"
	"github.com/storehub/backend/internal/domain/order"
	"github.com/storehub/backend/internal/domain/remote"
	"github.com/storehub/backend/internal/domain/store"
)

var (
	// ErrNoOrders is returned when none of the requested ids exist.
	ErrNoOrders = errors.New("bulkops: no matching orders")
	// ErrStatusNotRemote is returned when a batch status update names a
	// ledger-only status.
	ErrStatusNotRemote = errors.New("bulkops: status cannot be pushed to remote stores")
)

// StoreFailure records one store partition that failed as a whole.
type StoreFailure struct {
	StoreName string `json:"storeName"`
	Error     string `json:"error"`
}

// Result counts the per-order outcome of a batch mutation. A store
// partition succeeds or fails atomically; partitions are independent of
// each other.
type Result struct {
	SuccessCount int            `json:"successCount"`
	ErrorCount   int            `json:"errorCount"`
	Failures     []StoreFailure `json:"failures,omitempty"`
}

// DeleteResult reports a permanent-delete pass. Deletion is per order, so a
// cancelled or partially failed pass leaves the remaining ids intact for a
// later retry.
type DeleteResult struct {
	Deleted   int            `json:"deleted"`
	Failed    int            `json:"failed"`
	Remaining []string       `json:"remaining,omitempty"`
	Failures  []StoreFailure `json:"failures,omitempty"`
}

// Coordinator groups cross-store batch mutations by owning store and
// dispatches one remote batch per store. The ledger is only updated for
// partitions the remote store accepted.
type Coordinator struct {
	ledger   order.Ledger
	stores   store.Repository
	gateway  remote.Gateway
	notifier *orders.ChangeNotifier
	logger   *zap.Logger
}

// NewCoordinator creates a batch mutation coordinator
func NewCoordinator(ledger order.Ledger, stores store.Repository, gateway remote.Gateway, notifier *orders.ChangeNotifier, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		ledger:   ledger,
		stores:   stores,
		gateway:  gateway,
		notifier: notifier,
		logger:   logger,
	}
}

// SetStatus applies one status to every listed order. Orders are grouped by
// store; each store receives a single batch envelope that succeeds or fails
// as a whole, and a failed store never blocks the others. Manual orders
// have no remote backing and are updated in the ledger directly.
func (c *Coordinator) SetStatus(ctx context.Context, ids []string, status order.Status) (*Result, error) {
	if !status.IsRemote() {
		return nil, ErrStatusNotRemote
	}

	partitions, err := c.partition(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for storeID, partition := range partitions {
		if storeID == store.ManualStoreID {
			if err := c.ledger.BatchSetStatus(ctx, storeID, partition.ids, status); err != nil {
				result.ErrorCount += len(partition.ids)
				result.Failures = append(result.Failures, StoreFailure{
					StoreName: store.ManualStoreName,
					Error:     err.Error(),
				})
				continue
			}
			result.SuccessCount += len(partition.ids)
			continue
		}

		st, err := c.stores.FindByID(ctx, storeID)
		if err != nil {
			result.ErrorCount += len(partition.ids)
			result.Failures = append(result.Failures, StoreFailure{
				StoreName: partition.storeName,
				Error:     err.Error(),
			})
			continue
		}

		updates := make([]remote.OrderStatusUpdate, 0, len(partition.ids))
		for _, id := range partition.ids {
			updates = append(updates, remote.OrderStatusUpdate{OrderID: id, Status: status})
		}

		if err := c.gateway.BatchUpdateOrderStatus(ctx, st, updates); err != nil {
			c.logger.Warn("batch status update failed",
				zap.String("store", st.Name),
				zap.Int("orders", len(partition.ids)),
				zap.Error(err),
			)
			result.ErrorCount += len(partition.ids)
			result.Failures = append(result.Failures, StoreFailure{
				StoreName: st.Name,
				Error:     err.Error(),
			})
			continue
		}

		if err := c.ledger.BatchSetStatus(ctx, storeID, partition.ids, status); err != nil {
			// The remote accepted the batch; the next sync reconciles the
			// ledger copy.
			c.logger.Error("ledger update lagging behind remote batch",
				zap.String("store", st.Name),
				zap.Error(err),
			)
		}
		result.SuccessCount += len(partition.ids)
	}

	c.notifier.Notify("")
	return result, nil
}

// PermanentDelete erases orders for good. The remote API offers no forced
// batch delete, so orders are deleted one call at a time; cancellation
// stops between calls and reports the untouched ids so the pass can be
// resumed later.
func (c *Coordinator) PermanentDelete(ctx context.Context, ids []string) (*DeleteResult, error) {
	result := &DeleteResult{}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			result.Remaining = append(result.Remaining, ids[i:]...)
			c.notifier.Notify("")
			return result, err
		}

		if err := c.deleteOne(ctx, id, result); err != nil {
			result.Failed++
			continue
		}
		result.Deleted++
	}

	c.notifier.Notify("")
	return result, nil
}

func (c *Coordinator) deleteOne(ctx context.Context, id string, result *DeleteResult) error {
	o, err := c.ledger.FindByID(ctx, id)
	if err != nil {
		result.Failures = append(result.Failures, StoreFailure{Error: err.Error()})
		return err
	}

	if o.StoreID != store.ManualStoreID {
		st, err := c.stores.FindByID(ctx, o.StoreID)
		if err != nil {
			result.Failures = append(result.Failures, StoreFailure{
				StoreName: o.StoreName,
				Error:     err.Error(),
			})
			return err
		}
		if err := c.gateway.DeleteOrderPermanently(ctx, st, o.ID); err != nil {
			c.logger.Warn("remote delete failed",
				zap.String("store", st.Name),
				zap.String("order_id", o.ID),
				zap.Error(err),
			)
			result.Failures = append(result.Failures, StoreFailure{
				StoreName: st.Name,
				Error:     err.Error(),
			})
			return err
		}
	}

	return c.ledger.HardDelete(ctx, o.StoreID, []string{id})
}

type storePartition struct {
	storeName string
	ids       []string
}

// partition groups the requested ids by owning store, failing fast when an
// id does not exist.
func (c *Coordinator) partition(ctx context.Context, ids []string) (map[string]*storePartition, error) {
	if len(ids) == 0 {
		return nil, ErrNoOrders
	}

	partitions := make(map[string]*storePartition)
	for _, id := range ids {
		o, err := c.ledger.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		p, ok := partitions[o.StoreID]
		if !ok {
			p = &storePartition{storeName: o.StoreName}
			partitions[o.StoreID] = p
		}
		p.ids = append(p.ids, id)
	}
	return partitions, nil
}

package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/storehub/backend/internal/domain/order"
	"github.com/storehub/backend/internal/infrastructure/persistence/models"
)

const orderInsertBatchSize = 100

// GormOrderLedger implements order.Ledger using GORM
type GormOrderLedger struct {
	db *gorm.DB
}

// NewGormOrderLedger creates a new GormOrderLedger
func NewGormOrderLedger(db *gorm.DB) *GormOrderLedger {
	return &GormOrderLedger{db: db}
}

var _ order.Ledger = (*GormOrderLedger)(nil)

// FindAll returns every ledger order, newest first
func (r *GormOrderLedger) FindAll(ctx context.Context) ([]order.Order, error) {
	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).
		Order("date_created DESC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

// FindByID finds a ledger order by its id
func (r *GormOrderLedger) FindByID(ctx context.Context, id string) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStore returns all orders owned by one store, newest first
func (r *GormOrderLedger) FindByStore(ctx context.Context, storeID string) ([]order.Order, error) {
	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("date_created DESC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

// ReplaceForStore swaps one store's orders for the given snapshot inside a
// transaction, leaving all other stores' orders untouched.
func (r *GormOrderLedger) ReplaceForStore(ctx context.Context, storeID string, orders []order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OrderModel{}, "store_id = ?", storeID).Error; err != nil {
			return err
		}
		if len(orders) == 0 {
			return nil
		}
		return tx.CreateInBatches(fromDomainOrders(orders), orderInsertBatchSize).Error
	})
}

// Insert adds orders to the ledger without touching existing records
func (r *GormOrderLedger) Insert(ctx context.Context, orders []order.Order) error {
	if len(orders) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		CreateInBatches(fromDomainOrders(orders), orderInsertBatchSize).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return order.ErrDuplicateKey
	}
	return err
}

// PatchOne merges a field patch into one order. The store id scopes the
// row lookup so an order in another store sharing the bare id is never
// touched.
func (r *GormOrderLedger) PatchOne(ctx context.Context, storeID, id string, patch order.FieldPatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.OrderModel
		if err := tx.First(&model, "store_id = ? AND id = ?", storeID, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return order.ErrNotFound
			}
			return err
		}

		o := model.ToDomain()
		if err := patch.Apply(o); err != nil {
			return err
		}

		var updated models.OrderModel
		updated.FromDomain(o)
		updated.CreatedAt = model.CreatedAt
		return tx.Save(&updated).Error
	})
}

// BatchSetStatus sets the status on one store's listed orders
func (r *GormOrderLedger) BatchSetStatus(ctx context.Context, storeID string, ids []string, status order.Status) error {
	if !status.IsValid() {
		return order.ErrInvalidStatus
	}
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("store_id = ? AND id IN ?", storeID, ids).
		Update("status", status.String()).Error
}

// HardDelete removes one store's listed orders from the ledger entirely
func (r *GormOrderLedger) HardDelete(ctx context.Context, storeID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Delete(&models.OrderModel{}, "store_id = ? AND id IN ?", storeID, ids).Error
}

func toDomainOrders(orderModels []models.OrderModel) []order.Order {
	orders := make([]order.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders
}

func fromDomainOrders(orders []order.Order) []models.OrderModel {
	orderModels := make([]models.OrderModel, len(orders))
	for i := range orders {
		orderModels[i].FromDomain(&orders[i])
	}
	return orderModels
}

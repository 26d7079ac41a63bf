package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/storehub/backend/internal/domain/store"
	"github.com/storehub/backend/internal/infrastructure/persistence/models"
)

// GormStoreRepository implements store.Repository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

var _ store.Repository = (*GormStoreRepository)(nil)

// Save creates or updates a store record
func (r *GormStoreRepository) Save(ctx context.Context, s *store.Store) error {
	var model models.StoreModel
	model.FromDomain(s)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindByID finds a store by its registry id
func (r *GormStoreRepository) FindByID(ctx context.Context, id string) (*store.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a store by name, matching case-insensitively
func (r *GormStoreRepository) FindByName(ctx context.Context, name string) (*store.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all configured stores ordered by creation time
func (r *GormStoreRepository) FindAll(ctx context.Context) ([]store.Store, error) {
	var storeModels []models.StoreModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&storeModels).Error; err != nil {
		return nil, err
	}

	stores := make([]store.Store, len(storeModels))
	for i, model := range storeModels {
		stores[i] = *model.ToDomain()
	}
	return stores, nil
}

// Delete removes the store record and every ledger order owned by it in a
// single transaction.
func (r *GormStoreRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.StoreModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return tx.Delete(&models.OrderModel{}, "store_id = ?", id).Error
	})
}

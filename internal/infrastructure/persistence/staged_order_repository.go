package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/storehub/backend/internal/domain/order"
	"github.com/storehub/backend/internal/infrastructure/persistence/models"
)

// GormStagedOrderRepository implements order.StagedRepository using GORM
type GormStagedOrderRepository struct {
	db *gorm.DB
}

// NewGormStagedOrderRepository creates a new GormStagedOrderRepository
func NewGormStagedOrderRepository(db *gorm.DB) *GormStagedOrderRepository {
	return &GormStagedOrderRepository{db: db}
}

var _ order.StagedRepository = (*GormStagedOrderRepository)(nil)

// Save creates or updates a staged order
func (r *GormStagedOrderRepository) Save(ctx context.Context, s *order.StagedOrder) error {
	var model models.StagedOrderModel
	model.FromDomain(s)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindByID finds a staged order by its id
func (r *GormStagedOrderRepository) FindByID(ctx context.Context, id string) (*order.StagedOrder, error) {
	var model models.StagedOrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrStagedNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all staged orders, newest first
func (r *GormStagedOrderRepository) FindAll(ctx context.Context) ([]order.StagedOrder, error) {
	var stagedModels []models.StagedOrderModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&stagedModels).Error; err != nil {
		return nil, err
	}

	staged := make([]order.StagedOrder, len(stagedModels))
	for i, model := range stagedModels {
		staged[i] = *model.ToDomain()
	}
	return staged, nil
}

// Delete removes a staged order
func (r *GormStagedOrderRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.StagedOrderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return order.ErrStagedNotFound
	}
	return nil
}

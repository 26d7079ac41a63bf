package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storehub/backend/internal/domain/settings"
	"github.com/storehub/backend/internal/infrastructure/persistence/models"
)

// GormSettingsRepository implements settings.Repository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

var _ settings.Repository = (*GormSettingsRepository)(nil)

// Get loads the settings document stored under key into out
func (r *GormSettingsRepository) Get(ctx context.Context, key string, out any) error {
	var model models.SettingModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return settings.ErrNotFound
		}
		return err
	}
	if err := json.Unmarshal([]byte(model.Value), out); err != nil {
		return fmt.Errorf("settings: failed to decode %q: %w", key, err)
	}
	return nil
}

// Set stores value as the settings document under key, replacing any
// previous document.
func (r *GormSettingsRepository) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("settings: failed to encode %q: %w", key, err)
	}

	model := models.SettingModel{
		Key:       key,
		Value:     string(data),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&model).Error
}

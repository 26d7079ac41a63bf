package models

import "time"

// SettingModel stores one dashboard settings document as a JSON blob keyed
// by name.
type SettingModel struct {
	Key       string    `gorm:"primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (SettingModel) TableName() string {
	return "settings"
}

package models

import (
	"time"

	"github.com/storehub/backend/internal/domain/store"
)

// StoreModel is the persistence model for registered stores.
type StoreModel struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	Name           string `gorm:"not null;uniqueIndex"`
	URL            string `gorm:"not null"`
	ConsumerKey    string `gorm:"not null"`
	ConsumerSecret string `gorm:"not null"`
	Connected      bool   `gorm:"not null;default:true"`
	LastSync       *time.Time
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (StoreModel) TableName() string {
	return "stores"
}

// ToDomain converts the model to a domain Store
func (m *StoreModel) ToDomain() *store.Store {
	return &store.Store{
		ID:             m.ID,
		Name:           m.Name,
		URL:            m.URL,
		ConsumerKey:    m.ConsumerKey,
		ConsumerSecret: m.ConsumerSecret,
		Connected:      m.Connected,
		LastSync:       m.LastSync,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the model from a domain Store
func (m *StoreModel) FromDomain(s *store.Store) {
	m.ID = s.ID
	m.Name = s.Name
	m.URL = s.URL
	m.ConsumerKey = s.ConsumerKey
	m.ConsumerSecret = s.ConsumerSecret
	m.Connected = s.Connected
	m.LastSync = s.LastSync
	m.CreatedAt = s.CreatedAt
	m.UpdatedAt = s.UpdatedAt
}

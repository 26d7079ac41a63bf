package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/storehub/backend/internal/domain/identity"
)

// UserModel is the persistence model for console accounts.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	RoleID       *uuid.UUID `gorm:"type:uuid;index"`
	IsAdmin      bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		RoleID:       m.RoleID,
		IsAdmin:      m.IsAdmin,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain populates the model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.ID = u.ID
	m.Username = u.Username
	m.PasswordHash = u.PasswordHash
	m.RoleID = u.RoleID
	m.IsAdmin = u.IsAdmin
	m.CreatedAt = u.CreatedAt
	m.UpdatedAt = u.UpdatedAt
}

// RoleModel is the persistence model for roles. The permission set is
// stored as a JSON text column.
type RoleModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"not null;uniqueIndex"`
	PermissionsJSON string    `gorm:"type:text;column:permissions"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (RoleModel) TableName() string {
	return "roles"
}

// ToDomain converts the model to a domain Role
func (m *RoleModel) ToDomain() *identity.Role {
	r := &identity.Role{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.PermissionsJSON != "" {
		_ = json.Unmarshal([]byte(m.PermissionsJSON), &r.Permissions)
	}
	return r
}

// FromDomain populates the model from a domain Role
func (m *RoleModel) FromDomain(r *identity.Role) {
	m.ID = r.ID
	m.Name = r.Name
	m.CreatedAt = r.CreatedAt
	m.UpdatedAt = r.UpdatedAt

	if data, err := json.Marshal(r.Permissions); err == nil {
		m.PermissionsJSON = string(data)
	} else {
		m.PermissionsJSON = "{}"
	}
}

// AuditModel is the persistence model for access-control audit entries.
type AuditModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Actor  string    `gorm:"not null;index"`
	Action string    `gorm:"not null"`
	Detail string    `gorm:"type:text"`
	At     time.Time `gorm:"not null;index"`
}

// TableName specifies the table name
func (AuditModel) TableName() string {
	return "audit_entries"
}

// ToDomain converts the model to a domain AuditEntry
func (m *AuditModel) ToDomain() *identity.AuditEntry {
	return &identity.AuditEntry{
		ID:     m.ID,
		Actor:  m.Actor,
		Action: m.Action,
		Detail: m.Detail,
		At:     m.At,
	}
}

// FromDomain populates the model from a domain AuditEntry
func (m *AuditModel) FromDomain(e *identity.AuditEntry) {
	m.ID = e.ID
	m.Actor = e.Actor
	m.Action = e.Action
	m.Detail = e.Detail
	m.At = e.At
}

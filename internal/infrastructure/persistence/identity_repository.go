package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/infrastructure/persistence/models"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	var model models.UserModel
	model.FromDomain(u)
	err := r.db.WithContext(ctx).Save(&model).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return identity.ErrUsernameTaken
	}
	return err
}

// FindByID finds a user by id
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all users ordered by username
func (r *GormUserRepository) FindAll(ctx context.Context) ([]identity.User, error) {
	var userModels []models.UserModel
	if err := r.db.WithContext(ctx).
		Order("username ASC").
		Find(&userModels).Error; err != nil {
		return nil, err
	}

	users := make([]identity.User, len(userModels))
	for i, model := range userModels {
		users[i] = *model.ToDomain()
	}
	return users, nil
}

// Delete removes a user
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return identity.ErrUserNotFound
	}
	return nil
}

// GormRoleRepository implements identity.RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

var _ identity.RoleRepository = (*GormRoleRepository)(nil)

// Save creates or updates a role
func (r *GormRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	var model models.RoleModel
	model.FromDomain(role)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindByID finds a role by id
func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	var model models.RoleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrRoleNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all roles ordered by name
func (r *GormRoleRepository) FindAll(ctx context.Context) ([]identity.Role, error) {
	var roleModels []models.RoleModel
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&roleModels).Error; err != nil {
		return nil, err
	}

	roles := make([]identity.Role, len(roleModels))
	for i, model := range roleModels {
		roles[i] = *model.ToDomain()
	}
	return roles, nil
}

// Delete removes a role. Users pointing at the role keep their reference;
// resolution treats a missing role as no permissions.
func (r *GormRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RoleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return identity.ErrRoleNotFound
	}
	return nil
}

// GormAuditRepository implements identity.AuditRepository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

var _ identity.AuditRepository = (*GormAuditRepository)(nil)

// Append records one audit entry
func (r *GormAuditRepository) Append(ctx context.Context, e *identity.AuditEntry) error {
	var model models.AuditModel
	model.FromDomain(e)
	return r.db.WithContext(ctx).Create(&model).Error
}

// List returns the most recent audit entries, newest first
func (r *GormAuditRepository) List(ctx context.Context, limit int) ([]identity.AuditEntry, error) {
	var auditModels []models.AuditModel
	query := r.db.WithContext(ctx).Order("at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&auditModels).Error; err != nil {
		return nil, err
	}

	entries := make([]identity.AuditEntry, len(auditModels))
	for i, model := range auditModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

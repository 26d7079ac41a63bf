package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/infrastructure/auth"
)

var (
	// ErrWeakPassword indicates the password does not meet the minimum
	// length.
	ErrWeakPassword = errors.New("identity: password must be at least 8 characters")
	// ErrLastAdmin indicates an attempt to remove the only admin account.
	ErrLastAdmin = errors.New("identity: cannot remove the last admin account")
)

const minPasswordLength = 8

// Session is the result of a successful login.
type Session struct {
	Token       *auth.Token          `json:"token"`
	UserID      uuid.UUID            `json:"userId"`
	Username    string               `json:"username"`
	Permissions identity.Permissions `json:"permissions"`
}

// Service implements console access control: login, account and role
// management, and the audit trail of access changes.
type Service struct {
	users  identity.UserRepository
	roles  identity.RoleRepository
	audit  identity.AuditRepository
	tokens *auth.JWTService
	logger *zap.Logger
}

// NewService creates an identity service
func NewService(users identity.UserRepository, roles identity.RoleRepository, audit identity.AuditRepository, tokens *auth.JWTService, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		roles:  roles,
		audit:  audit,
		tokens: tokens,
		logger: logger,
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

// Login checks credentials and issues an access token. Unknown usernames
// and wrong passwords fail identically so the response does not reveal
// which accounts exist.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, identity.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("username", u.Username))
	return &Session{
		Token:       token,
		UserID:      u.ID,
		Username:    u.Username,
		Permissions: s.PermissionsFor(ctx, u),
	}, nil
}

// PermissionsFor resolves the effective permission set for a user. Admins
// get everything; a user whose role is missing or deleted gets nothing.
func (s *Service) PermissionsFor(ctx context.Context, u *identity.User) identity.Permissions {
	if u.IsAdmin {
		return identity.AdminPermissions()
	}
	if u.RoleID == nil {
		return identity.Permissions{}
	}

	role, err := s.roles.FindByID(ctx, *u.RoleID)
	if err != nil {
		if !errors.Is(err, identity.ErrRoleNotFound) {
			s.logger.Warn("role lookup failed", zap.String("username", u.Username), zap.Error(err))
		}
		return identity.Permissions{}
	}
	return role.Permissions
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

// CreateUser registers a console account. actor is the username performing
// the change, recorded in the audit trail.
func (s *Service) CreateUser(ctx context.Context, actor, username, password string, roleID *uuid.UUID, isAdmin bool) (*identity.User, error) {
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	if roleID != nil {
		if _, err := s.roles.FindByID(ctx, *roleID); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	u := &identity.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		RoleID:       roleID,
		IsAdmin:      isAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	s.record(ctx, actor, "user.create", fmt.Sprintf("created user %q", username))
	return u, nil
}

// UpdateUser changes a user's role or admin flag, and resets the password
// when a new one is given.
func (s *Service) UpdateUser(ctx context.Context, actor string, id uuid.UUID, roleID *uuid.UUID, isAdmin bool, newPassword string) (*identity.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsAdmin && !isAdmin {
		if err := s.ensureAnotherAdmin(ctx, id); err != nil {
			return nil, err
		}
	}
	if roleID != nil {
		if _, err := s.roles.FindByID(ctx, *roleID); err != nil {
			return nil, err
		}
	}

	u.RoleID = roleID
	u.IsAdmin = isAdmin
	if newPassword != "" {
		if len(newPassword) < minPasswordLength {
			return nil, ErrWeakPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	u.UpdatedAt = time.Now()

	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	s.record(ctx, actor, "user.update", fmt.Sprintf("updated user %q", u.Username))
	return u, nil
}

// DeleteUser removes an account. The last admin cannot be deleted.
func (s *Service) DeleteUser(ctx context.Context, actor string, id uuid.UUID) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u.IsAdmin {
		if err := s.ensureAnotherAdmin(ctx, id); err != nil {
			return err
		}
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, "user.delete", fmt.Sprintf("deleted user %q", u.Username))
	return nil
}

// GetUser finds one account by id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return s.users.FindByID(ctx, id)
}

// ListUsers returns every console account.
func (s *Service) ListUsers(ctx context.Context) ([]identity.User, error) {
	return s.users.FindAll(ctx)
}

func (s *Service) ensureAnotherAdmin(ctx context.Context, excluding uuid.UUID) error {
	all, err := s.users.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, u := range all {
		if u.IsAdmin && u.ID != excluding {
			return nil
		}
	}
	return ErrLastAdmin
}

// ---------------------------------------------------------------------------
// Roles
// ---------------------------------------------------------------------------

// CreateRole adds a named permission set.
func (s *Service) CreateRole(ctx context.Context, actor, name string, perms identity.Permissions) (*identity.Role, error) {
	if err := validateTabs(perms); err != nil {
		return nil, err
	}

	now := time.Now()
	r := &identity.Role{
		ID:          uuid.New(),
		Name:        name,
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.roles.Save(ctx, r); err != nil {
		return nil, err
	}
	s.record(ctx, actor, "role.create", fmt.Sprintf("created role %q", name))
	return r, nil
}

// UpdateRole replaces a role's name and permission set. Takes effect on
// the next permission resolution of every assigned user.
func (s *Service) UpdateRole(ctx context.Context, actor string, id uuid.UUID, name string, perms identity.Permissions) (*identity.Role, error) {
	if err := validateTabs(perms); err != nil {
		return nil, err
	}

	r, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Name = name
	r.Permissions = perms
	r.UpdatedAt = time.Now()

	if err := s.roles.Save(ctx, r); err != nil {
		return nil, err
	}
	s.record(ctx, actor, "role.update", fmt.Sprintf("updated role %q", name))
	return r, nil
}

// DeleteRole removes a role. Users still assigned to it fall back to no
// permissions until they are reassigned.
func (s *Service) DeleteRole(ctx context.Context, actor string, id uuid.UUID) error {
	r, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.roles.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, "role.delete", fmt.Sprintf("deleted role %q", r.Name))
	return nil
}

// ListRoles returns every role.
func (s *Service) ListRoles(ctx context.Context) ([]identity.Role, error) {
	return s.roles.FindAll(ctx)
}

func validateTabs(perms identity.Permissions) error {
	for tab, access := range perms.Tabs {
		if !access.IsValid() {
			return fmt.Errorf("%w: tab %q has level %q", identity.ErrInvalidTabAccess, tab, access)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Audit
// ---------------------------------------------------------------------------

// AuditLog lists the most recent access-control changes.
func (s *Service) AuditLog(ctx context.Context, limit int) ([]identity.AuditEntry, error) {
	return s.audit.List(ctx, limit)
}

// record appends an audit entry. A failed append is logged, never fatal:
// losing one trail entry must not roll back the change itself.
func (s *Service) record(ctx context.Context, actor, action, detail string) {
	entry := &identity.AuditEntry{
		ID:     uuid.New(),
		Actor:  actor,
		Action: action,
		Detail: detail,
		At:     time.Now(),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Warn("audit append failed",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

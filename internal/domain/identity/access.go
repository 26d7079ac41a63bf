package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound indicates no user matches the given id or username.
	ErrUserNotFound = errors.New("identity: user not found")
	// ErrRoleNotFound indicates the referenced role does not exist.
	ErrRoleNotFound = errors.New("identity: role not found")
	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	// ErrUsernameTaken indicates a duplicate username on user creation.
	ErrUsernameTaken = errors.New("identity: username already taken")
	// ErrInvalidTabAccess indicates an unknown tab access level.
	ErrInvalidTabAccess = errors.New("identity: invalid tab access level")
)

// Tab names one dashboard tab gated by role permissions.
type Tab string

const (
	TabOrders        Tab = "orders"
	TabTrashed       Tab = "trashed"
	TabStock         Tab = "stock"
	TabStores        Tab = "stores"
	TabProducts      Tab = "products"
	TabWhatsApp      Tab = "whatsapp"
	TabTracking      Tab = "tracking"
	TabAccessManager Tab = "access-manager"
)

// AllTabs lists every gated tab.
var AllTabs = []Tab{
	TabOrders, TabTrashed, TabStock, TabStores,
	TabProducts, TabWhatsApp, TabTracking, TabAccessManager,
}

// TabAccess is the access level a role grants on one tab.
type TabAccess string

const (
	TabAccessNone TabAccess = "none"
	TabAccessView TabAccess = "view"
	TabAccessEdit TabAccess = "edit"
)

// IsValid returns true if the access level is a known value.
func (a TabAccess) IsValid() bool {
	switch a {
	case TabAccessNone, TabAccessView, TabAccessEdit:
		return true
	default:
		return false
	}
}

// Permissions is the per-role capability set. Enforcement happens at the
// interface layer; the core services stay authorization-free and must only
// be reached from already-authorized contexts.
type Permissions struct {
	IsAdmin      bool              `json:"isAdmin"`
	ViewRevenue  bool              `json:"viewRevenue"`
	AddStore     bool              `json:"addStore"`
	SyncOrders   bool              `json:"syncOrders"`
	ImportExport bool              `json:"importExport"`
	Tabs         map[Tab]TabAccess `json:"tabs"`
	// AllowedStores restricts visibility to the listed store ids; nil
	// means all stores.
	AllowedStores []string `json:"allowedStores,omitempty"`
}

// AdminPermissions returns the unrestricted permission set.
func AdminPermissions() Permissions {
	tabs := make(map[Tab]TabAccess, len(AllTabs))
	for _, t := range AllTabs {
		tabs[t] = TabAccessEdit
	}
	return Permissions{
		IsAdmin:      true,
		ViewRevenue:  true,
		AddStore:     true,
		SyncOrders:   true,
		ImportExport: true,
		Tabs:         tabs,
	}
}

// TabAccessFor returns the access level for a tab, defaulting to none.
func (p Permissions) TabAccessFor(tab Tab) TabAccess {
	if p.IsAdmin {
		return TabAccessEdit
	}
	if a, ok := p.Tabs[tab]; ok && a.IsValid() {
		return a
	}
	return TabAccessNone
}

// CanView returns true if the tab is at least visible.
func (p Permissions) CanView(tab Tab) bool {
	return p.TabAccessFor(tab) != TabAccessNone
}

// CanEdit returns true if the tab allows mutations.
func (p Permissions) CanEdit(tab Tab) bool {
	return p.TabAccessFor(tab) == TabAccessEdit
}

// Role groups a named permission set assignable to users.
type Role struct {
	ID          uuid.UUID
	Name        string
	Permissions Permissions
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// User is one console account.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	RoleID       *uuid.UUID
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuditEntry records one access-control change for the audit log.
type AuditEntry struct {
	ID     uuid.UUID
	Actor  string
	Action string
	Detail string
	At     time.Time
}

// UserRepository persists console accounts.
type UserRepository interface {
	Save(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RoleRepository persists roles and their permission sets.
type RoleRepository interface {
	Save(ctx context.Context, r *Role) error
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)
	FindAll(ctx context.Context) ([]Role, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuditRepository appends and lists access-control audit entries.
type AuditRepository interface {
	Append(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, limit int) ([]AuditEntry, error)
}

package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates the referenced store is not in the registry.
	ErrNotFound = errors.New("store: not found")
	// ErrNameRequired indicates a store was submitted without a name.
	ErrNameRequired = errors.New("store: name is required")
	// ErrURLRequired indicates a store was submitted without a URL.
	ErrURLRequired = errors.New("store: url is required")
	// ErrCredentialsRequired indicates a missing consumer key or secret.
	ErrCredentialsRequired = errors.New("store: consumer key and secret are required")
	// ErrNameTaken indicates another registered store already uses the name.
	ErrNameTaken = errors.New("store: name already in use")
)

// ManualStoreID is the sentinel store id for manually entered orders.
// Orders under this id have no remote backing and are mutated locally only.
const ManualStoreID = "whatsapp-order"

// ManualStoreName is the display name attached to manually entered orders.
const ManualStoreName = "WhatsApp"

// Store represents one externally hosted commerce installation with its own
// REST API credentials. Identity is the registry-assigned ID.
type Store struct {
	ID             string
	Name           string
	URL            string
	ConsumerKey    string
	ConsumerSecret string
	Connected      bool
	LastSync       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// New creates a Store from submitted data. The URL is normalized before any
// endpoint construction; connected starts true and lastSync unset.
func New(name, rawURL, consumerKey, consumerSecret string) (*Store, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(rawURL) == "" {
		return nil, ErrURLRequired
	}
	if consumerKey == "" || consumerSecret == "" {
		return nil, ErrCredentialsRequired
	}
	now := time.Now()
	return &Store{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(name),
		URL:            NormalizeURL(rawURL),
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		Connected:      true,
		LastSync:       nil,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// NormalizeURL strips trailing slashes so endpoint paths can be appended
// without producing double separators.
func NormalizeURL(rawURL string) string {
	return strings.TrimRight(strings.TrimSpace(rawURL), "/")
}

// Update holds partial registry updates. Nil fields are left untouched.
type Update struct {
	Name           *string
	URL            *string
	ConsumerKey    *string
	ConsumerSecret *string
	Connected      *bool
	LastSync       *time.Time
}

// Apply merges the update into the store.
func (s *Store) Apply(u Update) {
	if u.Name != nil {
		s.Name = strings.TrimSpace(*u.Name)
	}
	if u.URL != nil {
		s.URL = NormalizeURL(*u.URL)
	}
	if u.ConsumerKey != nil {
		s.ConsumerKey = *u.ConsumerKey
	}
	if u.ConsumerSecret != nil {
		s.ConsumerSecret = *u.ConsumerSecret
	}
	if u.Connected != nil {
		s.Connected = *u.Connected
	}
	if u.LastSync != nil {
		s.LastSync = u.LastSync
	}
	s.UpdatedAt = time.Now()
}

// Repository is the registry persistence port. It is the single source for
// resolving a store id to its credentials.
type Repository interface {
	// Save creates or updates a store record.
	Save(ctx context.Context, s *Store) error

	// FindByID finds a store by its registry id.
	FindByID(ctx context.Context, id string) (*Store, error)

	// FindByName finds a store by name, matching case-insensitively.
	FindByName(ctx context.Context, name string) (*Store, error)

	// FindAll returns all configured stores ordered by creation time.
	FindAll(ctx context.Context) ([]Store, error)

	// Delete removes the store record and every ledger order owned by it.
	// Both removals happen in one transaction so no order is ever left
	// referencing a deleted store.
	Delete(ctx context.Context, id string) error
}

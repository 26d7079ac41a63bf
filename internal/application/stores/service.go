package stores

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/remote"
	"github.com/storehub/backend/internal/domain/store"
)

// Service manages the store registry. Registration is gated on a live
// connection test so a store with bad credentials never enters the
// registry.
type Service struct {
	repo    store.Repository
	gateway remote.Gateway
	logger  *zap.Logger
}

// NewService creates a store registry service
func NewService(repo store.Repository, gateway remote.Gateway, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		gateway: gateway,
		logger:  logger,
	}
}

// Add validates the submitted store, probes it with the given credentials
// and persists it only when the probe succeeds.
func (s *Service) Add(ctx context.Context, name, url, consumerKey, consumerSecret string) (*store.Store, error) {
	st, err := store.New(name, url, consumerKey, consumerSecret)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByName(ctx, st.Name); err == nil {
		return nil, store.ErrNameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	status, err := s.gateway.TestConnection(ctx, remote.Credentials{
		URL:            st.URL,
		ConsumerKey:    st.ConsumerKey,
		ConsumerSecret: st.ConsumerSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("store %q rejected the connection test: %w", st.Name, err)
	}

	if err := s.repo.Save(ctx, st); err != nil {
		return nil, err
	}

	s.logger.Info("store registered",
		zap.String("store_id", st.ID),
		zap.String("name", st.Name),
		zap.String("remote_version", status.Version),
	)
	return st, nil
}

// Update applies a partial update. When the endpoint or credentials change
// the new values are probed before they are persisted.
func (s *Service) Update(ctx context.Context, id string, update store.Update) (*store.Store, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	st.Apply(update)

	if update.URL != nil || update.ConsumerKey != nil || update.ConsumerSecret != nil {
		if _, err := s.gateway.TestConnection(ctx, remote.Credentials{
			URL:            st.URL,
			ConsumerKey:    st.ConsumerKey,
			ConsumerSecret: st.ConsumerSecret,
		}); err != nil {
			return nil, fmt.Errorf("store %q rejected the connection test: %w", st.Name, err)
		}
	}

	if err := s.repo.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Remove deletes the store and, through the repository transaction, every
// ledger order it owns.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("store removed with its orders", zap.String("store_id", id))
	return nil
}

// Get finds one store by id
func (s *Service) Get(ctx context.Context, id string) (*store.Store, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns all registered stores
func (s *Service) List(ctx context.Context) ([]store.Store, error) {
	return s.repo.FindAll(ctx)
}

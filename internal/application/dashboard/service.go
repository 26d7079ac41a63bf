package dashboard

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/settings"
)

// Service serves per-console dashboard preferences. Missing documents fall
// back to defaults, so a fresh database needs no seeding.
type Service struct {
	repo   settings.Repository
	logger *zap.Logger
}

// NewService creates a dashboard preferences service
func NewService(repo settings.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ScreenOptions returns the saved column toggles, or the default set when
// none were saved yet.
func (s *Service) ScreenOptions(ctx context.Context) (settings.ScreenOptions, error) {
	var opts settings.ScreenOptions
	err := s.repo.Get(ctx, settings.KeyScreenOptions, &opts)
	if errors.Is(err, settings.ErrNotFound) {
		return settings.DefaultScreenOptions(), nil
	}
	if err != nil {
		return settings.ScreenOptions{}, err
	}
	return opts, nil
}

// SaveScreenOptions persists the column toggles.
func (s *Service) SaveScreenOptions(ctx context.Context, opts settings.ScreenOptions) error {
	return s.repo.Set(ctx, settings.KeyScreenOptions, opts)
}

// TabOrder returns the saved tab ordering, defaulting to the built-in tab
// list.
func (s *Service) TabOrder(ctx context.Context) ([]string, error) {
	var order []string
	err := s.repo.Get(ctx, settings.KeyTabOrder, &order)
	if errors.Is(err, settings.ErrNotFound) {
		return defaultTabOrder(), nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// SaveTabOrder persists the tab ordering.
func (s *Service) SaveTabOrder(ctx context.Context, order []string) error {
	return s.repo.Set(ctx, settings.KeyTabOrder, order)
}

func defaultTabOrder() []string {
	order := make([]string, 0, len(identity.AllTabs))
	for _, t := range identity.AllTabs {
		order = append(order, string(t))
	}
	return order
}

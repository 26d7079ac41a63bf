package settings

import (
	"context"
	"errors"
)

// ErrNotFound indicates the named settings document does not exist yet.
var ErrNotFound = errors.New("settings: not found")

// Well-known settings keys.
const (
	KeyScreenOptions = "screenOptions"
	KeyTabOrder      = "tabOrder"
)

// ScreenOptions controls which order columns the console renders and
// exports.
type ScreenOptions struct {
	Order    bool `json:"order"`
	Date     bool `json:"date"`
	Status   bool `json:"status"`
	Billing  bool `json:"billing"`
	Shipping bool `json:"shipping"`
	Items    bool `json:"items"`
	Total    bool `json:"total"`
	Payment  bool `json:"payment"`
	Ref      bool `json:"ref"`
}

// DefaultScreenOptions returns the column set shown before any user
// customization.
func DefaultScreenOptions() ScreenOptions {
	return ScreenOptions{
		Order:   true,
		Date:    true,
		Status:  true,
		Billing: true,
		Items:   true,
		Total:   true,
		Ref:     true,
	}
}

// Repository persists dashboard settings documents as JSON blobs keyed by
// name.
type Repository interface {
	Get(ctx context.Context, key string, out any) error
	Set(ctx context.Context, key string, value any) error
}

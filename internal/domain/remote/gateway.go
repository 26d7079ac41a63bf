package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/storehub/backend/internal/domain/catalog"
	"github.com/storehub/backend/internal/domain/order"
	"github.com/storehub/backend/internal/domain/store"
)

var (
	// ErrConnectionFailed indicates the store could not be reached or the
	// credentials were rejected. Fatal at store-add time.
	ErrConnectionFailed = errors.New("remote: connection failed")
	// ErrRequestFailed indicates a non-2xx response from the remote store.
	ErrRequestFailed = errors.New("remote: request failed")
	// ErrInvalidResponse indicates a 2xx response whose body could not be
	// decoded.
	ErrInvalidResponse = errors.New("remote: invalid response")
)

// BatchError reports a whole-partition remote batch failure. The remote
// batch endpoints return per-item results inside a 2xx body, but this client
// treats any non-2xx response as failure of the entire batch and a 2xx as
// success of the entire batch, with no per-item introspection.
type BatchError struct {
	StoreName string
	Err       error
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	return fmt.Sprintf("remote: batch operation failed for store %q: %v", e.StoreName, e.Err)
}

// Unwrap returns the underlying cause.
func (e *BatchError) Unwrap() error { return e.Err }

// Credentials identifies a store endpoint before it is registered.
type Credentials struct {
	URL            string
	ConsumerKey    string
	ConsumerSecret string
}

// SystemStatus is the store metadata returned by a successful connection
// test.
type SystemStatus struct {
	HomeURL  string
	Version  string
	Currency string
}

// OrderStatusUpdate is one entry of an order status batch.
type OrderStatusUpdate struct {
	OrderID string
	Status  order.Status
}

// OrderDraft is the creation payload for one remote order, produced by the
// spreadsheet importer. The remote store assigns the id.
type OrderDraft struct {
	Status             order.Status
	Currency           string
	PaymentMethod      string
	PaymentMethodTitle string
	SetPaid            bool
	Billing            order.Address
	Shipping           order.Address
	LineItems          []order.LineItem
	CustomerNote       string
}

// Gateway is the port to one remote store's REST API. Implementations route
// every call through the CORS proxy with Basic Auth from the store's
// credentials, make a single attempt with no retry, and never cache.
type Gateway interface {
	// TestConnection performs an authenticated system-status probe. Used to
	// validate credentials before a store is persisted.
	TestConnection(ctx context.Context, creds Credentials) (*SystemStatus, error)

	// ListOrders fetches one page of orders, newest first.
	ListOrders(ctx context.Context, st *store.Store, perPage int) ([]order.Order, error)

	// ListProducts fetches one page of products.
	ListProducts(ctx context.Context, st *store.Store, perPage int) ([]catalog.Product, error)

	// BatchUpdateOrderStatus posts one status-update batch envelope.
	BatchUpdateOrderStatus(ctx context.Context, st *store.Store, updates []OrderStatusUpdate) error

	// BatchCreateOrders posts one create batch envelope and returns the
	// orders the remote store confirmed as created, tagged with the store.
	BatchCreateOrders(ctx context.Context, st *store.Store, drafts []OrderDraft) ([]order.Order, error)

	// UpdateOrder puts a field patch to the single-order endpoint and
	// returns the server's canonical representation.
	UpdateOrder(ctx context.Context, st *store.Store, orderID string, patch order.FieldPatch) (*order.Order, error)

	// DeleteOrderPermanently deletes one order with the force flag. There
	// is no batch-force variant, so callers delete order by order.
	DeleteOrderPermanently(ctx context.Context, st *store.Store, orderID string) error

	// BatchUpdateProducts posts one product update batch envelope.
	BatchUpdateProducts(ctx context.Context, st *store.Store, patches []catalog.Patch) error

	// BatchDeleteProducts posts one product delete batch envelope.
	BatchDeleteProducts(ctx context.Context, st *store.Store, ids []int64) error
}

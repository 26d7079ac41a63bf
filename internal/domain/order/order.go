package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates no ledger order matches the given id.
	ErrNotFound = errors.New("order: not found")
	// ErrInvalidStatus indicates an unknown order status value.
	ErrInvalidStatus = errors.New("order: invalid status")
	// ErrDuplicateKey indicates a second order with the same (store_id, id)
	// pair was about to enter the ledger.
	ErrDuplicateKey = errors.New("order: duplicate (store_id, id) pair")
)

// Status is the lifecycle state of an order. All values except StatusTrash
// are remote commerce statuses; trash exists only in the local ledger as a
// soft-delete marker.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusOnHold     Status = "on-hold"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
	StatusFailed     Status = "failed"
	StatusTrash      Status = "trash"
)

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusOnHold, StatusCompleted,
		StatusCancelled, StatusRefunded, StatusFailed, StatusTrash:
		return true
	default:
		return false
	}
}

// IsRemote returns true if the status exists on the remote store. Trash is
// ledger-only and must never be pushed to a remote batch update.
func (s Status) IsRemote() bool {
	return s.IsValid() && s != StatusTrash
}

// String returns the string representation of Status.
func (s Status) String() string {
	return string(s)
}

// Key is the composite identity of an order. An order id alone is only
// unique within its owning store.
type Key struct {
	StoreID string
	ID      string
}

// Address holds billing or shipping contact details.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Country   string `json:"country,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// LineItem is one purchased item within an order.
type LineItem struct {
	ID        string          `json:"id,omitempty"`
	ProductID int64           `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku,omitempty"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// MetaEntry is an opaque remote metadata key/value pair carried through the
// ledger untouched.
type MetaEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Order is one ledger record. Orders come from a full-store sync, from a
// spreadsheet import, or from manual entry (StoreID == store.ManualStoreID).
type Order struct {
	ID                 string
	StoreID            string
	StoreName          string
	StoreURL           string
	Status             Status
	DateCreated        time.Time
	Billing            Address
	Shipping           Address
	LineItems          []LineItem
	MetaData           []MetaEntry
	CustomerNote       string
	Total              decimal.Decimal
	Currency           string
	PaymentMethod      string
	PaymentMethodTitle string
}

// Key returns the composite identity of the order.
func (o *Order) Key() Key {
	return Key{StoreID: o.StoreID, ID: o.ID}
}

// Meta returns the value of a metadata entry, or "" if absent.
func (o *Order) Meta(key string) string {
	for _, m := range o.MetaData {
		if m.Key == key {
			return m.Value
		}
	}
	return ""
}

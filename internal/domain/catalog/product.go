package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidStockStatus indicates an unknown stock status value.
var ErrInvalidStockStatus = errors.New("catalog: invalid stock status")

// StockStatus is the remote availability state of a product.
type StockStatus string

const (
	StockStatusInStock     StockStatus = "instock"
	StockStatusOutOfStock  StockStatus = "outofstock"
	StockStatusOnBackorder StockStatus = "onbackorder"
)

// IsValid returns true if the stock status is a known value.
func (s StockStatus) IsValid() bool {
	switch s {
	case StockStatusInStock, StockStatusOutOfStock, StockStatusOnBackorder:
		return true
	default:
		return false
	}
}

// Product is a remote store product tagged with its owning store. Products
// are never persisted centrally: they are fetched on demand per session and
// mutations are write-through only, so the remote store stays authoritative.
type Product struct {
	ID           int64
	StoreID      string
	StoreName    string
	Name         string
	SKU          string
	RegularPrice decimal.Decimal
	SalePrice    decimal.Decimal
	StockStatus  StockStatus
	Permalink    string
}

// Key is the composite identity of a product; its remote id is only unique
// within the owning store.
type Key struct {
	StoreID string
	ID      int64
}

// Key returns the composite identity of the product.
func (p *Product) Key() Key {
	return Key{StoreID: p.StoreID, ID: p.ID}
}

// Patch holds the writable fields of a product batch update.
type Patch struct {
	ID           int64
	StoreID      string
	Name         string
	RegularPrice decimal.Decimal
	SalePrice    decimal.Decimal
	StockStatus  StockStatus
}

package order

import (
	"context"
	"fmt"
	"strings"
)

// FieldPatch is a shallow field merge supporting one level of nesting via
// dotted keys, e.g. "billing.phone" or "status". Values for top-level struct
// fields ("billing", "shipping") may themselves be maps and are merged field
// by field rather than replaced.
type FieldPatch map[string]any

// Apply merges the patch into the order. Unknown fields are rejected so a
// typo cannot silently drop an edit.
func (p FieldPatch) Apply(o *Order) error {
	for key, value := range p {
		if err := applyField(o, key, value); err != nil {
			return err
		}
	}
	return nil
}

func applyField(o *Order, key string, value any) error {
	if head, rest, nested := strings.Cut(key, "."); nested {
		switch head {
		case "billing":
			return applyAddressField(&o.Billing, rest, value)
		case "shipping":
			return applyAddressField(&o.Shipping, rest, value)
		default:
			return fmt.Errorf("order: patch field %q does not support nesting", head)
		}
	}

	switch key {
	case "status":
		s, ok := value.(string)
		if !ok || !Status(s).IsValid() {
			return ErrInvalidStatus
		}
		o.Status = Status(s)
	case "customer_note":
		return assignString(&o.CustomerNote, key, value)
	case "currency":
		return assignString(&o.Currency, key, value)
	case "payment_method":
		return assignString(&o.PaymentMethod, key, value)
	case "payment_method_title":
		return assignString(&o.PaymentMethodTitle, key, value)
	case "billing":
		return applyAddressMap(&o.Billing, key, value)
	case "shipping":
		return applyAddressMap(&o.Shipping, key, value)
	default:
		return fmt.Errorf("order: unknown patch field %q", key)
	}
	return nil
}

func applyAddressMap(a *Address, key string, value any) error {
	fields, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("order: patch field %q expects an object", key)
	}
	for sub, v := range fields {
		if err := applyAddressField(a, sub, v); err != nil {
			return err
		}
	}
	return nil
}

func applyAddressField(a *Address, field string, value any) error {
	targets := map[string]*string{
		"first_name": &a.FirstName,
		"last_name":  &a.LastName,
		"company":    &a.Company,
		"address_1":  &a.Address1,
		"address_2":  &a.Address2,
		"city":       &a.City,
		"state":      &a.State,
		"postcode":   &a.Postcode,
		"country":    &a.Country,
		"email":      &a.Email,
		"phone":      &a.Phone,
	}
	target, ok := targets[field]
	if !ok {
		return fmt.Errorf("order: unknown address field %q", field)
	}
	return assignString(target, field, value)
}

func assignString(target *string, field string, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("order: patch field %q expects a string", field)
	}
	*target = s
	return nil
}

// Ledger is the persistence port for the centralized order collection. The
// ledger exclusively owns the authoritative order set; it never holds two
// orders with the same (store_id, id) pair.
type Ledger interface {
	// FindAll returns every ledger order.
	FindAll(ctx context.Context) ([]Order, error)

	// FindByID finds a ledger order by its id.
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByStore returns all orders owned by one store.
	FindByStore(ctx context.Context, storeID string) ([]Order, error)

	// ReplaceForStore removes every order owned by storeID and inserts the
	// given snapshot, leaving all other stores' orders untouched. This is
	// the reconciliation primitive: a full snapshot replace, not a merge.
	ReplaceForStore(ctx context.Context, storeID string, orders []Order) error

	// Insert adds orders to the ledger without touching existing records.
	// Used for imported and promoted manual orders.
	Insert(ctx context.Context, orders []Order) error

	// PatchOne merges a field patch into one order. Mutations carry the
	// owning store id because a bare order id is only unique within its
	// store; an unscoped update could touch another store's order that
	// happens to share the id.
	PatchOne(ctx context.Context, storeID, id string, patch FieldPatch) error

	// BatchSetStatus sets the status on one store's listed orders.
	BatchSetStatus(ctx context.Context, storeID string, ids []string, status Status) error

	// HardDelete removes one store's listed orders from the ledger.
	HardDelete(ctx context.Context, storeID string, ids []string) error
}

package order

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storehub/backend/internal/domain/store"
)

// ErrManualAmountMissing indicates neither the total-payment nor the price
// field of a staged order contained a usable amount.
var ErrManualAmountMissing = errors.New("order: staged order has no parsable amount")

// ErrStagedNotFound indicates no staged order matches the given id.
var ErrStagedNotFound = errors.New("order: staged order not found")

// StagedOrder is a manually captured order awaiting promotion into the
// ledger. The upstream channel delivers these already structured; free-text
// parsing happens before they reach this type.
type StagedOrder struct {
	ID            string
	Ref           string
	Name          string
	Mobile        string
	Address       string
	City          string
	Items         string
	Price         string
	TotalPayment  string
	Note          string
	ImportantNote string
	Date          string
	CreatedAt     time.Time
}

// StagedRepository persists staged manual orders until they are either
// promoted into the ledger or discarded.
type StagedRepository interface {
	Save(ctx context.Context, s *StagedOrder) error
	FindByID(ctx context.Context, id string) (*StagedOrder, error)
	FindAll(ctx context.Context) ([]StagedOrder, error)
	Delete(ctx context.Context, id string) error
}

var refIDPattern = regexp.MustCompile(`^([A-Za-z]{2})[A-Za-z0-9]*-.*?([0-9]{2})`)

// Promote converts the staged record into a ledger order under the manual
// store sentinel. The generated id combines a short prefix derived from the
// staged reference with a random five-digit suffix.
func (w *StagedOrder) Promote() (*Order, error) {
	amount, err := w.amount()
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:          w.generateID(),
		StoreID:     store.ManualStoreID,
		StoreName:   store.ManualStoreName,
		Status:      StatusProcessing,
		DateCreated: time.Now(),
		Billing: Address{
			FirstName: w.Name,
			Address1:  w.Address,
			City:      w.City,
			Phone:     w.Mobile,
		},
		LineItems: []LineItem{{
			ID:       uuid.NewString(),
			Name:     w.Items,
			Quantity: 1,
			Total:    amount,
		}},
		CustomerNote:       w.note(),
		Total:              amount,
		Currency:           "AED",
		PaymentMethodTitle: "Manual Order",
	}
	return o, nil
}

func (w *StagedOrder) generateID() string {
	prefix := w.Ref
	if m := refIDPattern.FindStringSubmatch(w.Ref); m != nil {
		prefix = m[1] + m[2]
	}
	return prefix + strconv.Itoa(10000+rand.Intn(90000))
}

// amount prefers the total-payment field over the quoted price, extracting
// the digits from whichever is present.
func (w *StagedOrder) amount() (decimal.Decimal, error) {
	for _, candidate := range []string{w.TotalPayment, w.Price} {
		if n, ok := extractDigits(candidate); ok {
			return decimal.NewFromInt(n), nil
		}
	}
	return decimal.Zero, ErrManualAmountMissing
}

// note falls back from the regular note to the important note; placeholder
// values of dashes and whitespace count as empty.
func (w *StagedOrder) note() string {
	for _, candidate := range []string{w.Note, w.ImportantNote} {
		trimmed := strings.TrimSpace(candidate)
		if trimmed != "" && !isPlaceholder(trimmed) {
			return trimmed
		}
	}
	return "N/A"
}

func isPlaceholder(s string) bool {
	for _, r := range s {
		if r != '-' && r != ' ' {
			return false
		}
	}
	return true
}

func extractDigits(s string) (int64, bool) {
	if s == "" || isPlaceholder(strings.TrimSpace(s)) {
		return 0, false
	}
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

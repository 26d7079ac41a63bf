package interchange

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/application/orders"
	"github.com/storehub/backend/internal/application/products"
	"github.com/storehub/backend/internal/domain/catalog"
	"github.com/storehub/backend/internal/domain/order"
	"github.com/storehub/backend/internal/domain/remote"
	"github.com/storehub/backend/internal/domain/settings"
	"github.com/storehub/backend/internal/domain/store"
	"github.com/storehub/backend/internal/infrastructure/spreadsheet"
)

// Fixed courier manifest values: every exported row is one parcel.
const (
	exportQty    = "1"
	exportWeight = "0.5"
	exportVolume = "0"
)

const exportDateLayout = "2006-01-02 15:04"

// ImportReport summarizes one order import. Rows that cannot be resolved
// to a registered store or contain no parseable items are skipped, not
// fatal; a store whose create batch is rejected fails as a whole while the
// other stores' rows still land.
type ImportReport struct {
	Created       int           `json:"created"`
	Skipped       int           `json:"skipped"`
	Failed        int           `json:"failed"`
	Failures      []string      `json:"failures,omitempty"`
	CreatedOrders []order.Order `json:"createdOrders"`
}

// Service moves orders and products between the console and spreadsheet
// files.
type Service struct {
	stores   store.Repository
	ledger   order.Ledger
	gateway  remote.Gateway
	products *products.Service
	notifier *orders.ChangeNotifier
	logger   *zap.Logger
}

// NewService creates an interchange service
func NewService(stores store.Repository, ledger order.Ledger, gateway remote.Gateway, productSvc *products.Service, notifier *orders.ChangeNotifier, logger *zap.Logger) *Service {
	return &Service{
		stores:   stores,
		ledger:   ledger,
		gateway:  gateway,
		products: productSvc,
		notifier: notifier,
		logger:   logger,
	}
}

// ---------------------------------------------------------------------------
// Order export
// ---------------------------------------------------------------------------

// Reference builds the export reference for one order: the last three
// characters of the store name followed by the order id. Manual orders use
// their raw id.
func Reference(o *order.Order) string {
	if o.StoreID == store.ManualStoreID {
		return o.ID
	}
	name := o.StoreName
	if len(name) > 3 {
		name = name[len(name)-3:]
	}
	return name + o.ID
}

// ExportOrdersCSV writes the selected orders as a BOM-prefixed CSV. An
// empty id list exports every non-trashed order. opts selects the optional
// columns; the courier manifest columns are always present.
func (s *Service) ExportOrdersCSV(ctx context.Context, w io.Writer, ids []string, opts settings.ScreenOptions) error {
	selected, err := s.selectOrders(ctx, ids)
	if err != nil {
		return err
	}

	records := [][]string{exportHeader(opts)}
	for i := range selected {
		records = append(records, exportRow(&selected[i], opts))
	}
	return spreadsheet.WriteCSV(w, records)
}

func (s *Service) selectOrders(ctx context.Context, ids []string) ([]order.Order, error) {
	all, err := s.ledger.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		active := make([]order.Order, 0, len(all))
		for _, o := range all {
			if o.Status != order.StatusTrash {
				active = append(active, o)
			}
		}
		return active, nil
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	selected := make([]order.Order, 0, len(ids))
	for _, o := range all {
		if wanted[o.ID] {
			selected = append(selected, o)
		}
	}
	return selected, nil
}

// exportCountry and exportPaymentType are fixed courier manifest values,
// emitted verbatim regardless of what the order carries.
const (
	exportCountry     = "United Arab Emirates"
	exportPaymentType = "Cash"
)

func exportHeader(opts settings.ScreenOptions) []string {
	header := []string{"Store"}
	if opts.Order {
		header = append(header, "Order ID")
	}
	if opts.Date {
		header = append(header, "Date")
	}
	if opts.Status {
		header = append(header, "Status")
	}
	if opts.Billing {
		header = append(header,
			"Billing First Name", "Billing Last Name",
			"Billing Phone", "Billing Mobile",
			"Billing Address 1", "Billing Address 2",
			"Billing City", "Billing Country", "Billing Email",
			"Payment Type",
		)
	}
	if opts.Shipping {
		header = append(header,
			"Shipping First Name", "Shipping Last Name",
			"Shipping Address 1", "Shipping Address 2", "Shipping City",
		)
	}
	if opts.Items {
		header = append(header, "Items", "Customer Note")
	}
	header = append(header, "Qty", "Weight", "Volume")
	if opts.Total {
		header = append(header, "Currency", "Total")
	}
	if opts.Payment {
		header = append(header, "Payment Method")
	}
	if opts.Ref {
		header = append(header, "Reference")
	}
	return header
}

func exportRow(o *order.Order, opts settings.ScreenOptions) []string {
	row := []string{o.StoreName}
	if opts.Order {
		row = append(row, o.ID)
	}
	if opts.Date {
		row = append(row, o.DateCreated.Format(exportDateLayout))
	}
	if opts.Status {
		row = append(row, o.Status.String())
	}
	if opts.Billing {
		row = append(row,
			o.Billing.FirstName,
			o.Billing.LastName,
			o.Billing.Phone,
			NormalizeMobile(o.Billing.Phone),
			o.Billing.Address1,
			o.Billing.Address2,
			o.Billing.City,
			exportCountry,
			o.Billing.Email,
			exportPaymentType,
		)
	}
	if opts.Shipping {
		row = append(row,
			o.Shipping.FirstName,
			o.Shipping.LastName,
			o.Shipping.Address1,
			o.Shipping.Address2,
			o.Shipping.City,
		)
	}
	if opts.Items {
		row = append(row, FormatItems(o.LineItems), o.CustomerNote)
	}
	row = append(row, exportQty, exportWeight, exportVolume)
	if opts.Total {
		row = append(row, o.Currency, o.Total.StringFixed(2))
	}
	if opts.Payment {
		row = append(row, o.PaymentMethodTitle)
	}
	if opts.Ref {
		row = append(row, Reference(o))
	}
	return row
}

// ---------------------------------------------------------------------------
// Order import
// ---------------------------------------------------------------------------

// ImportOrders reads a CSV or XLSX upload and creates the contained orders
// on their owning stores, mirroring each accepted batch into the ledger.
func (s *Service) ImportOrders(ctx context.Context, data []byte, filename string) (*ImportReport, error) {
	sheet, err := spreadsheet.Parse(data, filename)
	if err != nil {
		return nil, err
	}
	if !sheet.HasHeader("Store") || !sheet.HasHeader("Items") {
		return nil, fmt.Errorf("%w: need Store and Items columns", spreadsheet.ErrMissingHeader)
	}

	report := &ImportReport{}
	drafts := make(map[string][]remote.OrderDraft)
	resolved := make(map[string]*store.Store)
	byID := make(map[string]*store.Store)

	for _, row := range sheet.Rows {
		st, ok := s.resolveStore(ctx, resolved, cell(row, "Store"))
		if !ok {
			report.Skipped++
			continue
		}
		byID[st.ID] = st

		items := ParseItems(cell(row, "Items"))
		if len(items) == 0 {
			report.Skipped++
			continue
		}

		drafts[st.ID] = append(drafts[st.ID], draftFromRow(row, items))
	}

	for storeID, partition := range drafts {
		st := byID[storeID]
		created, err := s.gateway.BatchCreateOrders(ctx, st, partition)
		if err != nil {
			s.logger.Warn("order import batch rejected",
				zap.String("store", st.Name),
				zap.Int("orders", len(partition)),
				zap.Error(err),
			)
			report.Failed += len(partition)
			report.Failures = append(report.Failures, err.Error())
			continue
		}

		if err := s.ledger.Insert(ctx, created); err != nil {
			// Created remotely; the next sync picks them up.
			s.logger.Error("imported orders missing from ledger until next sync",
				zap.String("store", st.Name),
				zap.Error(err),
			)
		}
		report.Created += len(created)
		report.CreatedOrders = append(report.CreatedOrders, created...)
	}

	if report.Created > 0 {
		s.notifier.Notify("")
	}
	return report, nil
}

// draftFromRow builds one creation payload from a sheet row. The row's
// Status is honored when it names a remote status; anything else, trash
// included, falls back to processing. Header names accept both the export
// schema and the bare hand-built variants.
func draftFromRow(row *spreadsheet.Row, items []order.LineItem) remote.OrderDraft {
	status := order.StatusProcessing
	if v := order.Status(strings.ToLower(cell(row, "Status"))); v.IsRemote() {
		status = v
	}

	billing := order.Address{
		FirstName: cell(row, "Billing First Name", "First Name"),
		LastName:  cell(row, "Billing Last Name", "Last Name"),
		Phone:     cell(row, "Billing Phone", "Phone", "Mobile", "Billing Mobile"),
		Address1:  cell(row, "Billing Address 1", "Billing Address", "Address"),
		Address2:  cell(row, "Billing Address 2"),
		City:      cell(row, "Billing City", "City"),
		Email:     cell(row, "Billing Email", "Email"),
	}
	if billing.FirstName == "" {
		billing.FirstName = cell(row, "Name", "Billing Name")
	}

	shipping := order.Address{
		FirstName: cell(row, "Shipping First Name"),
		LastName:  cell(row, "Shipping Last Name"),
		Address1:  cell(row, "Shipping Address 1"),
		Address2:  cell(row, "Shipping Address 2"),
		City:      cell(row, "Shipping City"),
	}
	if shipping.Address1 == "" {
		shipping = billing
	}

	return remote.OrderDraft{
		Status:       status,
		SetPaid:      status == order.StatusProcessing || status == order.StatusCompleted,
		Currency:     cell(row, "Currency"),
		Billing:      billing,
		Shipping:     shipping,
		LineItems:    items,
		CustomerNote: cell(row, "Customer Note", "Note"),
	}
}

func (s *Service) resolveStore(ctx context.Context, seen map[string]*store.Store, name string) (*store.Store, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	key := strings.ToLower(name)
	if st, ok := seen[key]; ok {
		return st, st != nil
	}

	st, err := s.stores.FindByName(ctx, name)
	if err != nil {
		seen[key] = nil
		return nil, false
	}
	seen[key] = st
	return st, true
}

// cell returns the first non-empty value among the candidate headers,
// matching case-insensitively.
func cell(row *spreadsheet.Row, headers ...string) string {
	for _, want := range headers {
		for have, value := range row.Data {
			if strings.EqualFold(have, want) && value != "" {
				return value
			}
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// Product interchange
// ---------------------------------------------------------------------------

// ExportProductsCSV writes the cross-store product list as a BOM-prefixed
// CSV.
func (s *Service) ExportProductsCSV(ctx context.Context, w io.Writer) error {
	result, err := s.products.FetchAll(ctx)
	if err != nil {
		return err
	}

	records := [][]string{{"Store", "Product ID", "Name", "SKU", "Regular Price", "Sale Price", "Stock Status"}}
	for _, p := range result.Products {
		records = append(records, []string{
			p.StoreName,
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.SKU,
			p.RegularPrice.StringFixed(2),
			p.SalePrice.StringFixed(2),
			string(p.StockStatus),
		})
	}
	return spreadsheet.WriteCSV(w, records)
}

// ImportProducts reads price and stock edits from a spreadsheet and pushes
// them to the owning stores as batch updates.
func (s *Service) ImportProducts(ctx context.Context, data []byte, filename string) (successCount, errorCount int, err error) {
	sheet, err := spreadsheet.Parse(data, filename)
	if err != nil {
		return 0, 0, err
	}
	if !sheet.HasHeader("Store") || !sheet.HasHeader("Product ID") {
		return 0, 0, fmt.Errorf("%w: need Store and Product ID columns", spreadsheet.ErrMissingHeader)
	}

	resolved := make(map[string]*store.Store)
	var patches []catalog.Patch
	skipped := 0

	for _, row := range sheet.Rows {
		st, ok := s.resolveStore(ctx, resolved, cell(row, "Store"))
		if !ok {
			skipped++
			continue
		}
		id, err := strconv.ParseInt(cell(row, "Product ID"), 10, 64)
		if err != nil {
			skipped++
			continue
		}

		patch := catalog.Patch{
			ID:      id,
			StoreID: st.ID,
			Name:    cell(row, "Name"),
		}
		if v := cell(row, "Regular Price"); v != "" {
			if d, err := decimal.NewFromString(v); err == nil {
				patch.RegularPrice = d
			}
		}
		if v := cell(row, "Sale Price"); v != "" {
			if d, err := decimal.NewFromString(v); err == nil {
				patch.SalePrice = d
			}
		}
		if v := cell(row, "Stock Status"); v != "" && catalog.StockStatus(v).IsValid() {
			patch.StockStatus = catalog.StockStatus(v)
		}
		patches = append(patches, patch)
	}

	successCount, errorCount, err = s.products.BatchUpdate(ctx, patches)
	errorCount += skipped
	return successCount, errorCount, err
}

// ExportFilename builds a timestamped download name.
func ExportFilename(prefix string) string {
	return fmt.Sprintf("%s-%s.csv", prefix, time.Now().Format("2006-01-02"))
}

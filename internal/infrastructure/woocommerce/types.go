package woocommerce

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storehub/backend/internal/domain/catalog"
	"github.com/storehub/backend/internal/domain/order"
	"github.com/storehub/backend/internal/domain/store"
)

// wcDateLayout is the timestamp format used by the WooCommerce REST API.
// Dates carry no zone suffix and are expressed in the store's local time.
const wcDateLayout = "2006-01-02T15:04:05"

type wcAddress struct {
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

// wcMetaData values are untyped upstream: plugins store strings, numbers and
// arrays under the same field.
type wcMetaData struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

type wcLineItem struct {
	ID        int64  `json:"id,omitempty"`
	ProductID int64  `json:"product_id,omitempty"`
	Name      string `json:"name"`
	SKU       string `json:"sku,omitempty"`
	Quantity  int    `json:"quantity"`
	Total     string `json:"total,omitempty"`
}

type wcOrder struct {
	ID                 int64        `json:"id"`
	Status             string       `json:"status"`
	Currency           string       `json:"currency"`
	DateCreated        string       `json:"date_created"`
	Total              string       `json:"total"`
	Billing            wcAddress    `json:"billing"`
	Shipping           wcAddress    `json:"shipping"`
	PaymentMethod      string       `json:"payment_method"`
	PaymentMethodTitle string       `json:"payment_method_title"`
	CustomerNote       string       `json:"customer_note"`
	LineItems          []wcLineItem `json:"line_items"`
	MetaData           []wcMetaData `json:"meta_data"`
}

type wcProduct struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	RegularPrice string `json:"regular_price"`
	SalePrice    string `json:"sale_price"`
	StockStatus  string `json:"stock_status"`
	Permalink    string `json:"permalink"`
}

type wcSystemStatus struct {
	Environment struct {
		HomeURL string `json:"home_url"`
		Version string `json:"version"`
	} `json:"environment"`
	Settings struct {
		Currency string `json:"currency"`
	} `json:"settings"`
}

type wcOrderDraft struct {
	Status             string       `json:"status"`
	Currency           string       `json:"currency,omitempty"`
	PaymentMethod      string       `json:"payment_method,omitempty"`
	PaymentMethodTitle string       `json:"payment_method_title,omitempty"`
	SetPaid            bool         `json:"set_paid"`
	Billing            wcAddress    `json:"billing"`
	Shipping           wcAddress    `json:"shipping"`
	LineItems          []wcLineItem `json:"line_items"`
	CustomerNote       string       `json:"customer_note,omitempty"`
}

type wcOrderStatusEntry struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type wcProductPatchEntry struct {
	ID           int64  `json:"id"`
	Name         string `json:"name,omitempty"`
	RegularPrice string `json:"regular_price,omitempty"`
	SalePrice    string `json:"sale_price,omitempty"`
	StockStatus  string `json:"stock_status,omitempty"`
}

// parseDecimal converts a WooCommerce money string to a decimal, treating
// unparseable or empty values as zero.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toDomainOrder(st *store.Store, w *wcOrder) order.Order {
	o := order.Order{
		ID:                 strconv.FormatInt(w.ID, 10),
		StoreID:            st.ID,
		StoreName:          st.Name,
		StoreURL:           st.URL,
		Status:             order.Status(w.Status),
		Currency:           w.Currency,
		Total:              parseDecimal(w.Total),
		Billing:            toDomainAddress(&w.Billing),
		Shipping:           toDomainAddress(&w.Shipping),
		PaymentMethod:      w.PaymentMethod,
		PaymentMethodTitle: w.PaymentMethodTitle,
		CustomerNote:       w.CustomerNote,
		LineItems:          make([]order.LineItem, 0, len(w.LineItems)),
		MetaData:           make([]order.MetaEntry, 0, len(w.MetaData)),
	}

	if w.DateCreated != "" {
		if t, err := time.ParseInLocation(wcDateLayout, w.DateCreated, time.Local); err == nil {
			o.DateCreated = t
		}
	}

	for _, li := range w.LineItems {
		item := order.LineItem{
			Name:      li.Name,
			SKU:       li.SKU,
			Quantity:  li.Quantity,
			Total:     parseDecimal(li.Total),
			ProductID: li.ProductID,
		}
		if li.ID != 0 {
			item.ID = strconv.FormatInt(li.ID, 10)
		}
		o.LineItems = append(o.LineItems, item)
	}

	for _, md := range w.MetaData {
		o.MetaData = append(o.MetaData, order.MetaEntry{
			Key:   md.Key,
			Value: fmt.Sprint(md.Value),
		})
	}

	return o
}

func toDomainAddress(a *wcAddress) order.Address {
	return order.Address{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Company:   a.Company,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		State:     a.State,
		Postcode:  a.Postcode,
		Country:   a.Country,
		Email:     a.Email,
		Phone:     a.Phone,
	}
}

func fromDomainAddress(a *order.Address) wcAddress {
	return wcAddress{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Company:   a.Company,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		State:     a.State,
		Postcode:  a.Postcode,
		Country:   a.Country,
		Email:     a.Email,
		Phone:     a.Phone,
	}
}

func toDomainProduct(st *store.Store, w *wcProduct) catalog.Product {
	return catalog.Product{
		ID:           w.ID,
		StoreID:      st.ID,
		StoreName:    st.Name,
		Name:         w.Name,
		SKU:          w.SKU,
		RegularPrice: parseDecimal(w.RegularPrice),
		SalePrice:    parseDecimal(w.SalePrice),
		StockStatus:  catalog.StockStatus(w.StockStatus),
		Permalink:    w.Permalink,
	}
}

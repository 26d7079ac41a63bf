package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storehub/backend/internal/domain/order"
)

// OrderModel is the persistence model for ledger orders. An order id is
// only unique within its store, so the primary key is (store_id, id).
// Nested structures are serialized to JSON text columns.
type OrderModel struct {
	StoreID            string `gorm:"primaryKey"`
	ID                 string `gorm:"primaryKey;index"`
	StoreName          string
	StoreURL           string
	Status             string          `gorm:"not null;index"`
	DateCreated        time.Time       `gorm:"index"`
	BillingJSON        string          `gorm:"type:text;column:billing"`
	ShippingJSON       string          `gorm:"type:text;column:shipping"`
	LineItemsJSON      string          `gorm:"type:text;column:line_items"`
	MetaDataJSON       string          `gorm:"type:text;column:meta_data"`
	CustomerNote       string          `gorm:"type:text"`
	Total              decimal.Decimal `gorm:"type:numeric(14,2)"`
	Currency           string
	PaymentMethod      string
	PaymentMethodTitle string
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		ID:                 m.ID,
		StoreID:            m.StoreID,
		StoreName:          m.StoreName,
		StoreURL:           m.StoreURL,
		Status:             order.Status(m.Status),
		DateCreated:        m.DateCreated,
		CustomerNote:       m.CustomerNote,
		Total:              m.Total,
		Currency:           m.Currency,
		PaymentMethod:      m.PaymentMethod,
		PaymentMethodTitle: m.PaymentMethodTitle,
	}

	if m.BillingJSON != "" {
		_ = json.Unmarshal([]byte(m.BillingJSON), &o.Billing)
	}
	if m.ShippingJSON != "" {
		_ = json.Unmarshal([]byte(m.ShippingJSON), &o.Shipping)
	}
	if m.LineItemsJSON != "" {
		_ = json.Unmarshal([]byte(m.LineItemsJSON), &o.LineItems)
	}
	if m.MetaDataJSON != "" {
		_ = json.Unmarshal([]byte(m.MetaDataJSON), &o.MetaData)
	}
	return o
}

// FromDomain populates the model from a domain Order
func (m *OrderModel) FromDomain(o *order.Order) {
	m.ID = o.ID
	m.StoreID = o.StoreID
	m.StoreName = o.StoreName
	m.StoreURL = o.StoreURL
	m.Status = o.Status.String()
	m.DateCreated = o.DateCreated
	m.CustomerNote = o.CustomerNote
	m.Total = o.Total
	m.Currency = o.Currency
	m.PaymentMethod = o.PaymentMethod
	m.PaymentMethodTitle = o.PaymentMethodTitle

	m.BillingJSON = marshalOrEmpty(o.Billing)
	m.ShippingJSON = marshalOrEmpty(o.Shipping)
	m.LineItemsJSON = marshalOrEmpty(o.LineItems)
	m.MetaDataJSON = marshalOrEmpty(o.MetaData)
}

func marshalOrEmpty(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// StagedOrderModel is the persistence model for staged manual orders.
type StagedOrderModel struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	Ref           string
	Name          string
	Mobile        string
	Address       string `gorm:"type:text"`
	City          string
	Items         string `gorm:"type:text"`
	Price         string
	TotalPayment  string
	Note          string `gorm:"type:text"`
	ImportantNote string `gorm:"type:text"`
	Date          string
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (StagedOrderModel) TableName() string {
	return "staged_orders"
}

// ToDomain converts the model to a domain StagedOrder
func (m *StagedOrderModel) ToDomain() *order.StagedOrder {
	return &order.StagedOrder{
		ID:            m.ID,
		Ref:           m.Ref,
		Name:          m.Name,
		Mobile:        m.Mobile,
		Address:       m.Address,
		City:          m.City,
		Items:         m.Items,
		Price:         m.Price,
		TotalPayment:  m.TotalPayment,
		Note:          m.Note,
		ImportantNote: m.ImportantNote,
		Date:          m.Date,
		CreatedAt:     m.CreatedAt,
	}
}

// FromDomain populates the model from a domain StagedOrder
func (m *StagedOrderModel) FromDomain(s *order.StagedOrder) {
	m.ID = s.ID
	m.Ref = s.Ref
	m.Name = s.Name
	m.Mobile = s.Mobile
	m.Address = s.Address
	m.City = s.City
	m.Items = s.Items
	m.Price = s.Price
	m.TotalPayment = s.TotalPayment
	m.Note = s.Note
	m.ImportantNote = s.ImportantNote
	m.Date = s.Date
	m.CreatedAt = s.CreatedAt
}

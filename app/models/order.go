package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatusPending is the status every new order starts in. Other statuses are
// free-form strings chosen by the farmer (confirmed, rejected, ...).
const StatusPending = "Pending"

// Order is the aggregate root; it exclusively owns its Items.
type Order struct {
	ID          uint            `gorm:"primaryKey"                        json:"id"`
	OrderID     string          `gorm:"column:order_id;size:64;uniqueIndex;not null" json:"orderId"`
	BuyerEmail  string          `gorm:"size:255;index;not null"           json:"buyerEmail"`
	FirstName   string          `gorm:"size:255;not null"                 json:"firstName"`
	LastName    string          `gorm:"size:255;not null"                 json:"lastName"`
	Phone       string          `gorm:"size:50;not null"                  json:"phone"`
	Province    string          `gorm:"size:255"                          json:"province"`
	District    string          `gorm:"size:255"                          json:"district"`
	City        string          `gorm:"size:255"                          json:"city"`
	Address     string          `gorm:"size:500"                          json:"address"`
	Payment     string          `gorm:"size:100"                          json:"payment"`
	DeliveryFee decimal.Decimal `gorm:"type:decimal(12,2)"                json:"deliveryFee"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2)"                json:"total"`
	Status      string          `gorm:"size:50;index"                     json:"status"`
	OrderDate   time.Time       `gorm:"not null"                          json:"orderDate"`
	Items       []OrderItem     `gorm:"foreignKey:OrderRef;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is one line of an order. OrderRef always points at the order
// whose Items slice currently holds it.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey"                json:"id"`
	OrderRef    uint            `gorm:"column:order_ref;index;not null" json:"-"`
	ProductID   uint            `gorm:"index"                     json:"productId"`
	ProductName string          `gorm:"size:255"                  json:"productName"`
	Category    string          `gorm:"size:50"                   json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2)"        json:"price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `gorm:"size:500"                  json:"imageUrl"`
}

// SetItems replaces the item list and re-stamps every back-reference to o.
func (o *Order) SetItems(items []OrderItem) {
	for i := range items {
		items[i].OrderRef = o.ID
	}
	o.Items = items
}

// RelinkItems re-stamps the current items, e.g. after o.ID was assigned.
func (o *Order) RelinkItems() {
	o.SetItems(o.Items)
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.Status == "" {
		o.Status = StatusPending
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now()
	}
	return nil
}

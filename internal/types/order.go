package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is a closed enum. An order in StatusOpen is the customer's
// cart; checkout is just the open -> placed transition.
type OrderStatus string

const (
	StatusOpen      OrderStatus = "open"
	StatusPlaced    OrderStatus = "placed"
	StatusFulfilled OrderStatus = "fulfilled"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusPlaced, StatusFulfilled, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is allowed out of s.
func (s OrderStatus) Terminal() bool {
	return s == StatusFulfilled || s == StatusCancelled
}

// Order.Amount is derived from Lines and recomputed inside the same
// transaction as every line mutation; it is never authoritative on its own.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CustomerID      uint            `gorm:"not null;index;column:customer_id" json:"customer_id"`
	Customer        *User           `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ShippingAddress string          `gorm:"column:shipping_address" json:"shipping_address"`
	BillingAddress  string          `gorm:"column:billing_address" json:"billing_address"`
	OrderEmail      string          `gorm:"column:order_email" json:"order_email"`
	Status          OrderStatus     `gorm:"not null;default:'open';column:status" json:"status"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null;column:amount" json:"amount"`
	Lines           []OrderLine     `gorm:"foreignKey:OrderID" json:"lines"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string {
	return "order"
}

// LineFor returns the line referencing productID, or nil.
func (o *Order) LineFor(productID uint) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			return &o.Lines[i]
		}
	}
	return nil
}

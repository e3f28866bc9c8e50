package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine belongs to exactly one order. UnitPrice is a copy of the catalog
// price captured when the line was added, so historical orders keep their
// amounts when catalog prices change later.
type OrderLine struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index:idx_order_line_order_product,unique;column:order_id" json:"order_id"`
	ProductID uint            `gorm:"not null;index:idx_order_line_order_product,unique;column:product_id" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null;column:quantity" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;column:unit_price" json:"unit_price"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

func (OrderLine) TableName() string {
	return "order_line"
}

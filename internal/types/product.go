package types

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product is owned by the catalog; the order engine only ever reads it and
// treats Price as the authoritative unit price at add time.
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"not null;index;column:name" json:"name"`
	Description   string          `gorm:"column:description" json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null;column:price" json:"price"`
	StockQuantity int             `gorm:"not null;default:0;column:stock_quantity" json:"stock_quantity"`
	CategoryID    uint            `gorm:"not null;index;column:category_id" json:"category_id"`
	Category      *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Attributes    datatypes.JSON  `gorm:"column:attributes" json:"attributes,omitempty"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}

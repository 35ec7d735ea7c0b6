package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog row. Stock is mutated only by the placement transaction
// (decrement) and the administrative absolute set; the schema enforces
// stock >= 0 as a last line of defense.
type Product struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string          `gorm:"column:name;not null" json:"name"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Category  string          `gorm:"column:category" json:"category"`
	Stock     int             `gorm:"column:stock;not null;default:0" json:"stock"`
	Image     string          `gorm:"column:image" json:"image"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

package models

import (
	"time"

	"github.com/alexmoren/storefront-backend/pkg/enums"
	"github.com/alexmoren/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Order is an append-only record of a completed checkout. Line items are a
// denormalized JSONB snapshot, never a live join against the catalog.
type Order struct {
	ID            int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Items         types.LineItems   `gorm:"column:items;type:jsonb;not null"`
	CustomerName  string            `gorm:"column:customer_name"`
	CustomerEmail string            `gorm:"column:customer_email"`
	Total         decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null"`
	Status        enums.OrderStatus `gorm:"column:status;default:'pending'"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
}

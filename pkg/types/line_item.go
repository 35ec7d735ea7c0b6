package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// LineItem is the value snapshot of one product-and-quantity entry within an
// order. The captured name and price are frozen at order time so later catalog
// edits never alter order history.
type LineItem struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Extension returns price * quantity at full precision.
func (li LineItem) Extension() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// LineItems maps the orders.items JSONB column. Readers treat it as an opaque
// ordered sequence of snapshots.
type LineItems []LineItem

// Value implements driver.Valuer so the slice can be persisted as JSON.
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal line items: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner for the JSONB column.
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("line items: unsupported scan type %T", value)
	}

	if len(raw) == 0 {
		*l = LineItems{}
		return nil
	}

	var items LineItems
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("unmarshal line items: %w", err)
	}
	*l = items
	return nil
}

// GormDataType keeps gorm from guessing a column type for the slice.
func (LineItems) GormDataType() string {
	return "jsonb"
}

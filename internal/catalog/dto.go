package catalog

import "github.com/shopspring/decimal"

// ListFilters describe the inputs supported by the product list.
type ListFilters struct {
	Category string
}

// CreateProductInput captures the fields required to add a catalog entry.
type CreateProductInput struct {
	Name     string
	Price    decimal.Decimal
	Category string
	Stock    int
	Image    string
}

package enums

// OrderStatus enumerates the lifecycle states an order row may carry. The
// placement transaction only ever writes OrderStatusConfirmed; the other values
// exist for forward compatibility with fulfillment tooling.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

// Valid reports whether the value is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

package orders

// ItemRequest is a single requested line in a checkout.
type ItemRequest struct {
	ProductID int64
	Quantity  int
}

// CustomerInput carries optional customer contact details.
type CustomerInput struct {
	Name  string
	Email string
}

// PlaceOrderInput captures everything needed to attempt a checkout.
type PlaceOrderInput struct {
	Items    []ItemRequest
	Customer CustomerInput
}

// ListParams describe the inputs supported by the order list.
type ListParams struct {
	Limit int
}

package order

// PlaceOrderItem is one requested line item.
// swagger:model PlaceOrderItem
type PlaceOrderItem struct {
	ProductID string `json:"productId" example:"CBC-P-0001"`
	Qty       int    `json:"qty"       example:"2"`
}

// PlaceOrderRequest is the canonical order placement payload. Name falls back
// to the requester's profile name; shipping and payment methods have defaults.
// swagger:model PlaceOrderRequest
type PlaceOrderRequest struct {
	Name           string           `json:"name"`
	Address        string           `json:"address"`
	Phone          string           `json:"phone"`
	Products       []PlaceOrderItem `json:"products"`
	ShippingMethod string           `json:"shippingMethod"`
	PaymentMethod  string           `json:"paymentMethod"`
}

// UpdateOrderRequest mutates status and/or notes; everything else on an order
// is write-once.
// swagger:model UpdateOrderRequest
type UpdateOrderRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

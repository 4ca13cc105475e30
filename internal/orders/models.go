package orders

import "github.com/ariefcatur/go-shop-admin/internal/shopify"

// Query is the parsed order listing request.
type Query struct {
	Page       int
	Limit      int
	Status     StatusFilter
	DateFilter string
	Search     string
	ProductID  int64
}

type Result struct {
	Orders     []shopify.Order `json:"orders"`
	TotalCount int             `json:"total_count"`
}

// TrackingRequest is the body of PUT /api/orders/{id}.
type TrackingRequest struct {
	TrackingNumber string `json:"trackingNumber" validate:"required,max=255"`
}

// UpdateRequest is the body of POST /api/orders/update.
type UpdateRequest struct {
	OrderID         string  `json:"orderId" validate:"required"`
	TrackingNumber  *string `json:"trackingNumber" validate:"omitempty,max=255"`
	CustomerEmail   *string `json:"customerEmail" validate:"omitempty,email"`
	ShippingAddress *string `json:"shippingAddress" validate:"omitempty,max=255"`
}

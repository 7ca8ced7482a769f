package model

import "time"

// OrderStatus describes the buyer-facing order lifecycle. Transitions are
// monotone: PENDING may move to PAID, CANCELLED or EXPIRED; those three are
// final.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusExpired   OrderStatus = "EXPIRED"
)

// Final reports whether no further status transition is allowed.
func (s OrderStatus) Final() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled || s == OrderStatusExpired
}

// Order is the buyer-facing flash sale order, always backed by exactly one
// reservation. It references the sale by id and never duplicates its counters.
type Order struct {
	ID              int64
	Code            string
	SaleID          int64
	UserID          int64
	ReservationID   int64
	Quantity        float64
	UnitPrice       float64
	TotalAmount     float64
	DiscountAmount  float64
	Status          OrderStatus
	PaymentMethod   string
	PaymentDeadline time.Time
	PaidAt          *time.Time
	ShippingName    string
	ShippingPhone   string
	ShippingAddress string
	CustomerNote    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

package model

import "time"

// PurchaseCompleted is published after a purchase transaction commits.
// Consumed by downstream listeners (notifications, analytics) fire-and-forget.
type PurchaseCompleted struct {
	OrderID        int64     `json:"order_id"`
	OrderCode      string    `json:"order_code"`
	SaleID         int64     `json:"sale_id"`
	SaleName       string    `json:"sale_name"`
	UserID         int64     `json:"user_id"`
	Quantity       float64   `json:"quantity"`
	UnitPrice      float64   `json:"unit_price"`
	TotalAmount    float64   `json:"total_amount"`
	DiscountAmount float64   `json:"discount_amount"`
	OccurredAt     time.Time `json:"occurred_at"`
	CorrelationID  string    `json:"correlation_id"`
}

// OrderStatusChanged is published whenever an order leaves PENDING.
type OrderStatusChanged struct {
	OrderID       int64       `json:"order_id"`
	OldStatus     OrderStatus `json:"old_status"`
	NewStatus     OrderStatus `json:"new_status"`
	OccurredAt    time.Time   `json:"occurred_at"`
	CorrelationID string      `json:"correlation_id"`
}

package model

import "time"

// SellableItem carries the catalog fields needed to create a sale: display
// name, image and base price. Supplied by the catalog collaborator.
type SellableItem struct {
	ID        int64
	Name      string
	Image     string
	BasePrice float64
}

// PurchaseResult is returned to the buyer on a successful purchase.
type PurchaseResult struct {
	OrderID                 int64
	OrderCode               string
	Quantity                float64
	UnitPrice               float64
	TotalAmount             float64
	SavedAmount             float64
	PaymentDeadline         time.Time
	PaymentRemainingSeconds int64
	ReservationID           int64
	ReservationExpiresAt    time.Time
	RemainingStock          float64
	SoldPercentage          int
	UserTotalPurchased      float64
	UserRemainingLimit      float64
}

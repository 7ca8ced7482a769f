package model

import "time"

// ReservationStatus describes the lifecycle of a temporary stock hold.
type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusConverted ReservationStatus = "CONVERTED"
	ReservationStatusExpired   ReservationStatus = "EXPIRED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// Reservation is a time-boxed hold on sale quantity for one user. Its quantity
// is counted in Sale.ReservedQuantity while Active, moves to SoldQuantity on
// Converted and is released back on Expired or Cancelled.
type Reservation struct {
	ID          int64
	SaleID      int64
	UserID      int64
	Quantity    float64
	Status      ReservationStatus
	ExpiresAt   time.Time
	ConvertedAt *time.Time
	CreatedAt   time.Time
}

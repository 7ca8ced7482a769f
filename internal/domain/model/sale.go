package model

import "time"

// SaleStatus describes flash sale lifecycle.
type SaleStatus string

const (
	SaleStatusScheduled SaleStatus = "SCHEDULED"
	SaleStatusActive    SaleStatus = "ACTIVE"
	SaleStatusEnded     SaleStatus = "ENDED"
	SaleStatusSoldOut   SaleStatus = "SOLD_OUT"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// Terminal reports whether no further reservations are accepted in this status.
func (s SaleStatus) Terminal() bool {
	return s == SaleStatusEnded || s == SaleStatusSoldOut || s == SaleStatusCancelled
}

// Sale is one discounted fabric offer with authoritative quantity counters.
// Quantities are fabric meters; counters are mutated only through the locked
// read-modify-write path in storage.
type Sale struct {
	ID               int64
	FabricID         int64
	FabricName       string
	FabricImage      string
	Name             string
	Description      string
	OriginalPrice    float64
	FlashPrice       float64
	TotalQuantity    float64
	SoldQuantity     float64
	ReservedQuantity float64
	MaxPerUser       float64
	MinPurchase      float64
	StartTime        time.Time
	EndTime          time.Time
	Status           SaleStatus
	Priority         int
	IsFeatured       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AvailableQuantity returns total minus sold minus reserved, floored at zero.
func (s *Sale) AvailableQuantity() float64 {
	available := s.TotalQuantity - s.SoldQuantity - s.ReservedQuantity
	if available < 0 {
		return 0
	}
	return available
}

// SoldPercentage returns sold share of total stock in the range 0-100.
func (s *Sale) SoldPercentage() int {
	if s.TotalQuantity <= 0 {
		return 0
	}
	return int(s.SoldQuantity / s.TotalQuantity * 100)
}

// DiscountPercent returns the relative discount of flash price over original price.
func (s *Sale) DiscountPercent() int {
	if s.OriginalPrice <= 0 {
		return 0
	}
	return int((s.OriginalPrice - s.FlashPrice) / s.OriginalPrice * 100)
}

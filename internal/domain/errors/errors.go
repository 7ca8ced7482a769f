package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing sale, reservation or order.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState signals an operation on an order outside PENDING.
	ErrInvalidState = errors.New("invalid order state")
	// ErrOrderExpired signals a payment confirmation past the deadline.
	ErrOrderExpired = errors.New("order payment deadline passed")
	// ErrLockTimeout signals a bounded row-lock wait that ran out. Transient;
	// callers may retry with backoff.
	ErrLockTimeout = errors.New("lock timeout")
	// ErrSweepInFlight signals a reconciler sweep skipped because the previous
	// run has not finished.
	ErrSweepInFlight = errors.New("sweep already in flight")
)

// NotActiveError rejects a purchase on a sale outside its selling window.
type NotActiveError struct {
	Reason           string
	RemainingSeconds int64
}

func (e *NotActiveError) Error() string {
	if e.RemainingSeconds > 0 {
		return fmt.Sprintf("sale not active: %s, starts in %ds", e.Reason, e.RemainingSeconds)
	}
	return "sale not active: " + e.Reason
}

// BelowMinimumError rejects a purchase under the sale's minimum quantity.
type BelowMinimumError struct {
	Minimum float64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("quantity below minimum purchase of %.2f", e.Minimum)
}

// OutOfStockError rejects a purchase exceeding the available quantity.
type OutOfStockError struct {
	Available float64
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out of stock, %.2f available", e.Available)
}

// LimitExceededError rejects a purchase over the per-user limit.
type LimitExceededError struct {
	Remaining float64
	Max       float64
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("per-user limit of %.2f exceeded, %.2f remaining", e.Max, e.Remaining)
}

// IsRejection reports whether err is an expected business-rule rejection
// rather than an infrastructure failure.
func IsRejection(err error) bool {
	var (
		notActive *NotActiveError
		belowMin  *BelowMinimumError
		oos       *OutOfStockError
		limit     *LimitExceededError
	)
	return errors.As(err, &notActive) ||
		errors.As(err, &belowMin) ||
		errors.As(err, &oos) ||
		errors.As(err, &limit) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrOrderExpired)
}

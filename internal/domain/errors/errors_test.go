package errors

import (
	"fmt"
	"testing"
)

func TestIsRejection(t *testing.T) {
	rejections := []error{
		&NotActiveError{Reason: "ended"},
		&BelowMinimumError{Minimum: 0.5},
		&OutOfStockError{Available: 1},
		&LimitExceededError{Remaining: 1, Max: 5},
		ErrInvalidState,
		ErrOrderExpired,
		fmt.Errorf("wrapped: %w", &OutOfStockError{}),
	}
	for _, err := range rejections {
		if !IsRejection(err) {
			t.Fatalf("expected rejection for %v", err)
		}
	}

	infra := []error{ErrNotFound, ErrLockTimeout, ErrSweepInFlight, fmt.Errorf("boom")}
	for _, err := range infra {
		if IsRejection(err) {
			t.Fatalf("expected infrastructure error for %v", err)
		}
	}
}

func TestNotActiveErrorMessage(t *testing.T) {
	err := &NotActiveError{Reason: "not started", RemainingSeconds: 90}
	if got := err.Error(); got != "sale not active: not started, starts in 90s" {
		t.Fatalf("unexpected message %q", got)
	}
	ended := &NotActiveError{Reason: "ended"}
	if got := ended.Error(); got != "sale not active: ended" {
		t.Fatalf("unexpected message %q", got)
	}
}

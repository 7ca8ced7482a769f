package repository

import (
	"context"
	"time"

	"github.com/minhtg/flashsale/internal/domain/model"
)

// OrderRepository describes persistence operations with flash sale orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByIDAndUser(ctx context.Context, id, userID int64) (*model.Order, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Order, error)
	MarkPaid(ctx context.Context, id int64, method string, at time.Time) error
	MarkCancelled(ctx context.Context, id int64) error
	// ExpirePending flips every PENDING order past its payment deadline to
	// EXPIRED and returns the affected ids. Sale counters are untouched; the
	// matching reservations are reclaimed independently.
	ExpirePending(ctx context.Context, now time.Time) ([]int64, error)
	// SumQuantityByUserAndSale sums order quantities counting toward the
	// per-user limit (PENDING and PAID; cancelled and expired restore it).
	SumQuantityByUserAndSale(ctx context.Context, userID, saleID int64) (float64, error)
	ListByUserAndSale(ctx context.Context, userID, saleID int64) ([]model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
}

package repository

import (
	"context"
	"time"

	"github.com/minhtg/flashsale/internal/domain/model"
)

// SaleRepository describes persistence operations with flash sales.
// GetByIDForUpdate takes a pessimistic row lock and is only meaningful on a
// transaction-scoped repository obtained through UnitOfWork.
type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) (*model.Sale, error)
	GetByID(ctx context.Context, id int64) (*model.Sale, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Sale, error)
	Update(ctx context.Context, sale *model.Sale) error
	UpdateStatus(ctx context.Context, id int64, status model.SaleStatus) error
	ListActive(ctx context.Context, now time.Time) ([]model.Sale, error)
	ListFeatured(ctx context.Context, now time.Time) ([]model.Sale, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]model.Sale, error)
	IDsToActivate(ctx context.Context, now time.Time, limit int) ([]int64, error)
	IDsToEnd(ctx context.Context, now time.Time, limit int) ([]int64, error)
}

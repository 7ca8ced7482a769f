package usecase

import (
	"context"

	"github.com/minhtg/flashsale/internal/domain/model"
)

// EventPublisher delivers fire-and-forget notifications to downstream
// listeners. Implementations log delivery failures and never block the
// purchase path on them.
type EventPublisher interface {
	PurchaseCompleted(ctx context.Context, event model.PurchaseCompleted)
	OrderStatusChanged(ctx context.Context, event model.OrderStatusChanged)
}

// SaleCache is a read-side snapshot cache for sale rows. The authoritative
// counters live in storage; the cache is invalidated on every counter
// mutation and never consulted on the purchase path.
type SaleCache interface {
	Get(ctx context.Context, id int64) (*model.Sale, bool)
	Set(ctx context.Context, sale *model.Sale)
	Invalidate(ctx context.Context, id int64)
}

// CatalogProvider supplies the sellable item backing a sale. Consulted only
// at sale-creation time, never on the purchase path.
type CatalogProvider interface {
	GetSellableItem(ctx context.Context, id int64) (*model.SellableItem, error)
}

package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/minhtg/flashsale/internal/clock"
	"github.com/minhtg/flashsale/internal/config"
	"github.com/minhtg/flashsale/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newPurchaseUseCase,
	newSaleUseCase,
	newExpiryUseCase,
)

type purchaseParams struct {
	fx.In

	UOW    repository.UnitOfWork
	Clock  clock.Clock
	Events EventPublisher
	Cache  SaleCache
	Config *config.Config
	Logger *slog.Logger
}

func newPurchaseUseCase(p purchaseParams) *PurchaseUseCase {
	return NewPurchaseUseCase(p.UOW, p.Clock, p.Events, p.Cache,
		p.Config.ReservationHold, p.Config.PaymentWindow, p.Logger)
}

type saleParams struct {
	fx.In

	Repos   repository.Repositories
	UOW     repository.UnitOfWork
	Clock   clock.Clock
	Catalog CatalogProvider
	Cache   SaleCache
	Config  *config.Config
	Logger  *slog.Logger
}

func newSaleUseCase(p saleParams) *SaleUseCase {
	return NewSaleUseCase(p.Repos, p.UOW, p.Clock, p.Catalog, p.Cache,
		p.Config.SweepBatchSize, p.Logger)
}

type expiryParams struct {
	fx.In

	Repos  repository.Repositories
	UOW    repository.UnitOfWork
	Clock  clock.Clock
	Events EventPublisher
	Cache  SaleCache
	Config *config.Config
	Logger *slog.Logger
}

func newExpiryUseCase(p expiryParams) *ExpiryUseCase {
	return NewExpiryUseCase(p.Repos, p.UOW, p.Clock, p.Events, p.Cache,
		p.Config.SweepBatchSize, p.Logger)
}

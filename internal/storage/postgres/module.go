package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/minhtg/flashsale/internal/config"
	"github.com/minhtg/flashsale/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.Repositories { return s },
		func(s *Storage) repository.UnitOfWork { return s },
		func(s *Storage) repository.SaleRepository { return s.Sales() },
		func(s *Storage) repository.ReservationRepository { return s.Reservations() },
		func(s *Storage) repository.OrderRepository { return s.Orders() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Config.LockTimeout, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}

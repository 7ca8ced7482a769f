package router

import (
	"go.uber.org/fx"

	"github.com/minhtg/flashsale/internal/server/http/handlers"
	"github.com/minhtg/flashsale/internal/storage/postgres"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Options(
	fx.Provide(func(s *postgres.Storage) handlers.Pinger { return s }),
	fx.Provide(handlers.NewHealthHandler),
	fx.Provide(Setup),
)

package catalog

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/minhtg/flashsale/internal/config"
	"github.com/minhtg/flashsale/internal/usecase"
)

// Module exposes the catalog client implementation to the fx graph.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Provide(func(client Client) usecase.CatalogProvider { return client }),
)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.CatalogAddress, p.Logger)
}

package di

import (
	"go.uber.org/fx"

	"github.com/minhtg/flashsale/internal/adapter/catalog"
	"github.com/minhtg/flashsale/internal/adapter/notify"
	"github.com/minhtg/flashsale/internal/adapter/salecache"
	"github.com/minhtg/flashsale/internal/app"
	"github.com/minhtg/flashsale/internal/clock"
	"github.com/minhtg/flashsale/internal/config"
	"github.com/minhtg/flashsale/internal/logger"
	"github.com/minhtg/flashsale/internal/server/http/router"
	"github.com/minhtg/flashsale/internal/storage/postgres"
	"github.com/minhtg/flashsale/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		clock.Module,
		postgres.Module,
		catalog.Module,
		notify.Module,
		salecache.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

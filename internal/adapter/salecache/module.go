package salecache

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/minhtg/flashsale/internal/config"
	"github.com/minhtg/flashsale/internal/usecase"
)

// Module wires the sale snapshot cache: Redis when an address is configured,
// the no-op otherwise.
var Module = fx.Provide(newCache)

type cacheParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newCache(p cacheParams) usecase.SaleCache {
	if p.Config.RedisAddress == "" {
		return Noop{}
	}
	client := redis.NewClient(&redis.Options{Addr: p.Config.RedisAddress})
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return NewRedisCache(client, p.Config.CacheTTL, p.Logger)
}

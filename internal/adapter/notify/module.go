package notify

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/minhtg/flashsale/internal/config"
	"github.com/minhtg/flashsale/internal/usecase"
)

// Module wires the event publisher: Kafka when brokers are configured, the
// log-only fallback otherwise.
var Module = fx.Provide(newPublisher)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newPublisher(p publisherParams) usecase.EventPublisher {
	if len(p.Config.KafkaBrokers) == 0 {
		return NewLogPublisher(p.Logger)
	}
	publisher := NewKafkaPublisher(p.Config.KafkaBrokers, p.Config.KafkaTopic, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})
	return publisher
}

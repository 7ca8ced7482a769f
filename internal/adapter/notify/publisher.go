package notify

import (
	"context"
	"log/slog"

	"github.com/minhtg/flashsale/internal/domain/model"
)

// LogPublisher is the fallback event publisher used when no broker is
// configured: events are only written to the structured log.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher constructs the log-only publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PurchaseCompleted(_ context.Context, event model.PurchaseCompleted) {
	p.logger.Info("purchase completed",
		slog.Int64("order_id", event.OrderID),
		slog.String("order_code", event.OrderCode),
		slog.Int64("sale_id", event.SaleID),
		slog.Float64("quantity", event.Quantity),
		slog.String("correlation_id", event.CorrelationID))
}

func (p *LogPublisher) OrderStatusChanged(_ context.Context, event model.OrderStatusChanged) {
	p.logger.Info("order status changed",
		slog.Int64("order_id", event.OrderID),
		slog.String("old_status", string(event.OldStatus)),
		slog.String("new_status", string(event.NewStatus)),
		slog.String("correlation_id", event.CorrelationID))
}

package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/minhtg/flashsale/internal/domain/model"
)

// kafkaWriter is the subset of kafka.Writer used by the publisher, extracted
// so tests can substitute a fake.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher delivers flash sale events to a Kafka topic. Delivery is
// fire-and-forget: failures are logged and never propagate to the purchase
// path.
type KafkaPublisher struct {
	writer kafkaWriter
	logger *slog.Logger
}

// NewKafkaPublisher constructs a publisher with a hash-balanced writer so one
// order's events land in one partition.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			MaxAttempts:  3,
			WriteTimeout: 5 * time.Second,
			BatchTimeout: 50 * time.Millisecond,
		},
		logger: logger,
	}
}

// Close releases the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type envelope struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

func (p *KafkaPublisher) publish(ctx context.Context, kind, key string, payload any) {
	value, err := json.Marshal(envelope{Kind: kind, Payload: payload})
	if err != nil {
		p.logger.Error("event marshal failed", slog.String("kind", kind), slog.String("error", err.Error()))
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		p.logger.Error("event publish failed", slog.String("kind", kind), slog.String("error", err.Error()))
	}
}

func (p *KafkaPublisher) PurchaseCompleted(ctx context.Context, event model.PurchaseCompleted) {
	p.publish(ctx, "purchase_completed", event.OrderCode, event)
}

func (p *KafkaPublisher) OrderStatusChanged(ctx context.Context, event model.OrderStatusChanged) {
	p.publish(ctx, "order_status_changed", event.CorrelationID, event)
}

package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/febryan/qrispay/internal/domain/model"
)

// Publisher announces order status transitions to interested consumers.
// Publishing is best-effort: failures are logged, never surfaced.
type Publisher interface {
	PublishOrderStatus(ctx context.Context, order *model.Order)
	Close() error
}

// OrderStatusEvent is the wire payload emitted on every status transition.
type OrderStatusEvent struct {
	OrderID       string  `json:"order_id"`
	UserID        int64   `json:"user_id"`
	Status        string  `json:"status"`
	TransactionID *string `json:"transaction_id,omitempty"`
	OccurredAt    string  `json:"occurred_at"`
}

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher emits order status events to a Kafka topic keyed by order id
// so per-order ordering is preserved.
type KafkaPublisher struct {
	writer kafkaWriter
	logger *slog.Logger
	now    func() time.Time
}

// NewKafkaPublisher constructs a publisher writing to the given brokers/topic.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaPublisher{writer: writer, logger: logger, now: time.Now}
}

// PublishOrderStatus emits the transition event for order.
func (p *KafkaPublisher) PublishOrderStatus(ctx context.Context, order *model.Order) {
	event := OrderStatusEvent{
		OrderID:       order.OrderID,
		UserID:        order.UserID,
		Status:        string(order.Status),
		TransactionID: order.TransactionID,
		OccurredAt:    p.now().UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal order status event", slog.String("error", err.Error()))
		return
	}
	msg := kafka.Message{Key: []byte(order.OrderID), Value: payload}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("publish order status event failed",
			slog.String("order_id", order.OrderID),
			slog.String("error", err.Error()),
		)
	}
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

// PublishOrderStatus does nothing.
func (NoopPublisher) PublishOrderStatus(context.Context, *model.Order) {}

// Close does nothing.
func (NoopPublisher) Close() error { return nil }

package producer

import (
	"context"
	"log/slog"

	"asteroid-alerting/internal/events"
)

// MockProducer logs events instead of publishing them.
// Useful for running the alerting service without a Kafka instance.
type MockProducer struct {
	topic string
}

var _ EventPublisher = (*MockProducer)(nil)

// NewMock creates a producer that only logs.
func NewMock(topic string) *MockProducer {
	slog.Info("Using mock producer (no Kafka connection)",
		"topic", topic,
	)
	return &MockProducer{topic: topic}
}

// Publish logs the encoded event.
func (p *MockProducer) Publish(ctx context.Context, event *events.CollisionEvent) error {
	payload, err := events.Encode(event)
	if err != nil {
		return err
	}
	slog.Info("Mock publish (event logged, not sent to Kafka)",
		"topic", p.topic,
		"asteroid_name", event.AsteroidName,
		"close_approach_date", event.CloseApproachDate,
		"event_json", string(payload),
	)
	return nil
}

// Close is a no-op.
func (p *MockProducer) Close() error {
	return nil
}

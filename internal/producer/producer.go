// Package producer publishes collision events to Kafka.
package producer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"asteroid-alerting/internal/events"
	kafkautil "asteroid-alerting/pkg/kafka"

	"github.com/segmentio/kafka-go"
)

// DefaultPublishTimeout bounds a single publish including the broker ack.
const DefaultPublishTimeout = 10 * time.Second

// EventPublisher defines the interface for publishing collision events.
type EventPublisher interface {
	Publish(ctx context.Context, event *events.CollisionEvent) error
	Close() error
}

// messageWriter is the subset of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes events synchronously and returns once the partition leader has acked.
type Producer struct {
	writer         messageWriter
	topic          string
	publishTimeout time.Duration
}

var _ EventPublisher = (*Producer)(nil)

// New creates a Kafka producer for the given comma-separated brokers and topic.
// It attempts to create the topic if it does not exist yet.
func New(brokers, topic string, publishTimeout time.Duration) (*Producer, error) {
	if err := kafkautil.ValidateProducerParams(brokers, topic); err != nil {
		return nil, err
	}
	if publishTimeout <= 0 {
		publishTimeout = DefaultPublishTimeout
	}

	brokerList := kafkautil.ParseBrokers(brokers)
	slog.Info("Initializing Kafka producer",
		"brokers", brokerList,
		"topic", topic,
	)

	ensureTopic(brokerList[0], topic)

	slog.Info("Kafka producer configured",
		"write_timeout", kafkautil.WriteTimeout,
		"publish_timeout", publishTimeout,
		"required_acks", "RequireOne",
		"balancer", "Hash",
		"partition_key", "asteroid_name|close_approach_date (hashed)",
	)

	return &Producer{
		writer:         kafkautil.NewWriter(brokerList, topic),
		topic:          topic,
		publishTimeout: publishTimeout,
	}, nil
}

// Publish encodes the event and writes it to the topic.
// A missing broker ack is returned as an error, never swallowed.
func (p *Producer) Publish(ctx context.Context, event *events.CollisionEvent) error {
	payload, err := events.Encode(event)
	if err != nil {
		return err
	}
	msg := buildMessage(event, payload)

	ctx, cancel := context.WithTimeout(ctx, p.publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		slog.Error("Failed to write message to Kafka",
			"asteroid_name", event.AsteroidName,
			"close_approach_date", event.CloseApproachDate,
			"topic", p.topic,
			"error", err,
		)
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	slog.Debug("Published collision event",
		"asteroid_name", event.AsteroidName,
		"close_approach_date", event.CloseApproachDate,
		"topic", p.topic,
	)
	return nil
}

// Close flushes and closes the Kafka writer.
func (p *Producer) Close() error {
	slog.Info("Closing Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		slog.Error("Error closing Kafka producer", "error", err)
		return err
	}
	return nil
}

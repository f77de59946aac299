// Package consumer reads collision events from the asteroid alerts topic.
package consumer

import (
	"context"
	"fmt"
	"log/slog"

	"asteroid-alerting/internal/events"
	kafkautil "asteroid-alerting/pkg/kafka"

	"github.com/segmentio/kafka-go"
)

// messageFetcher is the subset of *kafka.Reader the consumer uses.
type messageFetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer wraps a consumer group reader. Offsets are committed only through CommitMessage.
type Consumer struct {
	reader messageFetcher
	topic  string
}

// NewConsumer creates a Kafka consumer for the given comma-separated brokers, topic and group.
func NewConsumer(brokers, topic, groupID string) (*Consumer, error) {
	if err := kafkautil.ValidateConsumerParams(brokers, topic, groupID); err != nil {
		return nil, err
	}

	brokerList := kafkautil.ParseBrokers(brokers)
	slog.Info("Initializing Kafka consumer",
		"brokers", brokerList,
		"topic", topic,
		"group_id", groupID,
	)

	reader := kafka.NewReader(kafkautil.NewReaderConfig(brokerList, topic, groupID))
	kafkautil.LogReaderConfig()

	return &Consumer{
		reader: reader,
		topic:  topic,
	}, nil
}

// FetchMessage returns the next collision event without committing its offset.
// A message that cannot be decoded is returned together with an error wrapping
// events.ErrInvalidEvent so the caller can still commit past it.
func (c *Consumer) FetchMessage(ctx context.Context) (*events.CollisionEvent, *kafka.Message, error) {
	msg, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch message from Kafka: %w", err)
	}

	event, err := events.Decode(msg.Value)
	if err != nil {
		return nil, &msg, fmt.Errorf("partition %d offset %d: %w", msg.Partition, msg.Offset, err)
	}
	return event, &msg, nil
}

// CommitMessage commits the offset for the given message.
func (c *Consumer) CommitMessage(ctx context.Context, msg *kafka.Message) error {
	return c.reader.CommitMessages(ctx, *msg)
}

// Close closes the reader and flushes pending commits.
func (c *Consumer) Close() error {
	slog.Info("Closing Kafka consumer", "topic", c.topic)
	if err := c.reader.Close(); err != nil {
		slog.Error("Error closing Kafka consumer", "error", err)
		return err
	}
	return nil
}

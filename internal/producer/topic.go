package producer

import (
	"log/slog"

	"github.com/segmentio/kafka-go"
)

const (
	defaultPartitions        = 3
	defaultReplicationFactor = 1
)

// ensureTopic creates the topic when it does not exist yet.
// Failures are logged; the first publish surfaces a missing topic as an error.
func ensureTopic(broker, topic string) {
	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		slog.Warn("Could not connect to Kafka to check topic",
			"broker", broker,
			"topic", topic,
			"error", err,
		)
		return
	}
	defer conn.Close()

	if partitions, err := conn.ReadPartitions(topic); err == nil && len(partitions) > 0 {
		slog.Info("Topic already exists", "topic", topic, "partitions", len(partitions))
		return
	}

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     defaultPartitions,
		ReplicationFactor: defaultReplicationFactor,
	})
	if err != nil {
		slog.Warn("Could not create topic", "topic", topic, "error", err)
		return
	}
	slog.Info("Created topic",
		"topic", topic,
		"partitions", defaultPartitions,
		"replication_factor", defaultReplicationFactor,
	)
}

package producer

import (
	"crypto/sha256"
	"strconv"

	"asteroid-alerting/internal/events"

	"github.com/segmentio/kafka-go"
)

// buildMessage creates a Kafka message for an event and its encoded payload.
// Events for the same asteroid and date share a key and therefore a partition.
func buildMessage(event *events.CollisionEvent, payload []byte) kafka.Message {
	return kafka.Message{
		Key:   hashKey(event.Key()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "schema_version", Value: []byte(strconv.Itoa(event.SchemaVersion))},
			{Key: "close_approach_date", Value: []byte(event.CloseApproachDate)},
		},
	}
}

// hashKey returns the first 16 bytes of the SHA-256 of key.
func hashKey(key string) []byte {
	hash := sha256.Sum256([]byte(key))
	return hash[:16]
}

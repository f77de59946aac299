package kafka

import "time"

const (
	// MaxPollWait is the longest a fetch waits for new data before returning.
	MaxPollWait = 500 * time.Millisecond
	// CommitInterval is how often committed offsets are flushed to the broker.
	// Zero would make CommitMessages synchronous; a short interval batches commits.
	CommitInterval = 1 * time.Second
	// WriteTimeout is the maximum time to wait for a Kafka write operation.
	WriteTimeout = 10 * time.Second
)

// Package processor turns consumed collision events into pending notification records.
package processor

import (
	"context"

	"asteroid-alerting/internal/database"
	"asteroid-alerting/internal/events"

	"github.com/segmentio/kafka-go"
)

// MessageReader reads collision events from a message queue.
type MessageReader interface {
	// FetchMessage returns the next event without committing it. An undecodable
	// message is returned with a nil event and an error wrapping events.ErrInvalidEvent.
	FetchMessage(ctx context.Context) (*events.CollisionEvent, *kafka.Message, error)

	// CommitMessage commits the offset for the given message.
	CommitMessage(ctx context.Context, msg *kafka.Message) error

	// Close closes the reader and releases resources.
	Close() error
}

// NotificationStorage persists notification records.
type NotificationStorage interface {
	// InsertNotificationIdempotent inserts a pending notification.
	// Returns the notification ID if a new row was inserted, or nil if it already existed.
	InsertNotificationIdempotent(ctx context.Context, n *database.Notification) (*string, error)
}

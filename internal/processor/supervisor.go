package processor

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// SubscribeFunc opens a new reader on the alerts topic.
type SubscribeFunc func() (MessageReader, error)

// Supervise runs ProcessEvents on a fresh subscription until ctx is cancelled.
//
// When processing stops with an error the reader is closed and, after backoff, a new
// one is opened. Uncommitted messages are then redelivered from the group's last
// committed offset.
func Supervise(ctx context.Context, subscribe SubscribeFunc, storage NotificationStorage, m MetricsRecorder, backoff time.Duration) {
	for ctx.Err() == nil {
		reader, err := subscribe()
		if err != nil {
			slog.Error("Failed to subscribe to alerts topic", "error", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				break
			}
			continue
		}

		err = NewProcessor(reader, storage, m).ProcessEvents(ctx)
		if closeErr := reader.Close(); closeErr != nil {
			slog.Error("Failed to close reader", "error", closeErr)
		}
		if err == nil {
			break
		}

		if errors.Is(err, ErrPersistence) {
			slog.Warn("Notification store unavailable, resubscribing for redelivery", "error", err, "retry_in", backoff)
		} else {
			slog.Error("Event processing stopped", "error", err, "retry_in", backoff)
		}
		if !sleep(ctx, backoff) {
			break
		}
	}
	slog.Info("Event consumer stopped")
}

// sleep waits d and reports whether ctx is still live.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

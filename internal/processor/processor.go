package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"asteroid-alerting/internal/database"
	"asteroid-alerting/internal/events"

	"github.com/segmentio/kafka-go"
)

// ErrPersistence is returned when a notification could not be stored.
// The message that caused it has not been committed and will be redelivered.
var ErrPersistence = errors.New("failed to persist notification")

// Processor consumes collision events and stores them as pending notifications.
type Processor struct {
	reader  MessageReader
	storage NotificationStorage
	metrics MetricsRecorder
}

// NewProcessor creates a processor. If m is nil, a no-op implementation is used.
func NewProcessor(reader MessageReader, storage NotificationStorage, m MetricsRecorder) *Processor {
	if m == nil {
		m = &NoOpMetrics{}
	}
	return &Processor{
		reader:  reader,
		storage: storage,
		metrics: m,
	}
}

// ProcessEvents reads events until ctx is cancelled or a notification cannot be stored.
//
// An offset is committed only after its event is stored, or when the message can never
// be decoded. On a storage failure the loop stops and returns an error wrapping
// ErrPersistence without committing, so the caller must drop this reader and
// resubscribe to have the broker redeliver from the last committed offset.
func (p *Processor) ProcessEvents(ctx context.Context) error {
	slog.Info("Starting event processing loop")

	for {
		if ctx.Err() != nil {
			slog.Info("Event processing loop stopped")
			return nil
		}

		event, msg, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, events.ErrInvalidEvent) && msg != nil {
				p.metrics.RecordReceived()
				p.skipMalformed(ctx, msg, err)
				continue
			}
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("reader closed: %w", err)
			}
			slog.Error("Failed to fetch collision event", "error", err)
			continue
		}

		p.metrics.RecordReceived()
		if err := p.processEvent(ctx, event); err != nil {
			if errors.Is(err, events.ErrInvalidEvent) {
				p.skipMalformed(ctx, msg, err)
				continue
			}
			return err
		}
		p.commit(ctx, msg, event.Key())
	}
}

// skipMalformed commits past a message that can never be stored.
func (p *Processor) skipMalformed(ctx context.Context, msg *kafka.Message, err error) {
	p.metrics.RecordError()
	p.metrics.IncrementCustom("messages_malformed")
	slog.Error("Skipping malformed collision event",
		"partition", msg.Partition,
		"offset", msg.Offset,
		"error", err,
	)
	p.commit(ctx, msg, "")
}

// processEvent stores one event as a pending notification.
func (p *Processor) processEvent(ctx context.Context, event *events.CollisionEvent) error {
	start := time.Now()

	n, err := toNotification(event)
	if err != nil {
		return err
	}

	id, err := p.storage.InsertNotificationIdempotent(ctx, n)
	if err != nil {
		p.metrics.RecordError()
		slog.Error("Failed to store notification",
			"asteroid_name", event.AsteroidName,
			"close_approach_date", event.CloseApproachDate,
			"error", err,
		)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if id == nil {
		p.metrics.IncrementCustom("notifications_deduplicated")
		slog.Debug("Notification already recorded",
			"asteroid_name", event.AsteroidName,
			"close_approach_date", event.CloseApproachDate,
		)
	} else {
		p.metrics.IncrementCustom("notifications_created")
		slog.Info("Recorded pending notification",
			"notification_id", *id,
			"asteroid_name", event.AsteroidName,
			"close_approach_date", event.CloseApproachDate,
		)
	}

	p.metrics.RecordProcessed(time.Since(start))
	return nil
}

func (p *Processor) commit(ctx context.Context, msg *kafka.Message, key string) {
	if err := p.reader.CommitMessage(ctx, msg); err != nil {
		slog.Error("Failed to commit offset",
			"key", key,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
	}
}

// toNotification maps a validated event onto a pending notification record.
func toNotification(event *events.CollisionEvent) (*database.Notification, error) {
	date, err := event.ApproachDate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", events.ErrInvalidEvent, err)
	}
	miss, err := event.MissDistance()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", events.ErrInvalidEvent, err)
	}
	return &database.Notification{
		AsteroidName:               event.AsteroidName,
		CloseApproachDate:          date,
		MissDistanceKilometers:     miss,
		EstimatedDiameterAvgMeters: event.EstimatedDiameterAvgMeters,
		EmailSent:                  false,
	}, nil
}

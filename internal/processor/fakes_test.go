package processor

import (
	"context"
	"time"

	"asteroid-alerting/internal/database"
	"asteroid-alerting/internal/events"

	"github.com/segmentio/kafka-go"
)

// FakeDelivery is one scripted FetchMessage result.
type FakeDelivery struct {
	Event *events.CollisionEvent
	Msg   *kafka.Message
	Err   error
}

// FakeReader is a test fake for MessageReader. Once its deliveries are exhausted
// it cancels the processing context.
type FakeReader struct {
	Deliveries []FakeDelivery
	Cancel     context.CancelFunc
	CommitErr  error
	Committed  []kafka.Message
	ReadIndex  int
	Closed     bool
}

func (f *FakeReader) FetchMessage(ctx context.Context) (*events.CollisionEvent, *kafka.Message, error) {
	if f.ReadIndex >= len(f.Deliveries) {
		if f.Cancel != nil {
			f.Cancel()
		}
		return nil, nil, ctx.Err()
	}
	d := f.Deliveries[f.ReadIndex]
	f.ReadIndex++
	return d.Event, d.Msg, d.Err
}

func (f *FakeReader) CommitMessage(ctx context.Context, msg *kafka.Message) error {
	if f.CommitErr != nil {
		return f.CommitErr
	}
	f.Committed = append(f.Committed, *msg)
	return nil
}

func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// FakeStorage is a test fake for NotificationStorage that dedupes on asteroid name and date.
type FakeStorage struct {
	Inserted   []*database.Notification
	InsertFunc func(n *database.Notification) (*string, error)
	seen       map[string]bool
}

func (f *FakeStorage) InsertNotificationIdempotent(ctx context.Context, n *database.Notification) (*string, error) {
	if f.InsertFunc != nil {
		if id, err := f.InsertFunc(n); err != nil || id != nil {
			return id, err
		}
	}
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	key := n.AsteroidName + "|" + n.CloseApproachDate.Format(events.DateLayout)
	if f.seen[key] {
		return nil, nil
	}
	f.seen[key] = true
	f.Inserted = append(f.Inserted, n)
	id := key
	return &id, nil
}

// FakeMetrics is a test fake for MetricsRecorder that tracks calls.
type FakeMetrics struct {
	ReceivedCount    int
	ProcessedCount   int
	PublishedCount   int
	ErrorCount       int
	CustomIncrements map[string]int
}

func NewFakeMetrics() *FakeMetrics {
	return &FakeMetrics{CustomIncrements: make(map[string]int)}
}

func (f *FakeMetrics) RecordReceived()                 { f.ReceivedCount++ }
func (f *FakeMetrics) RecordProcessed(_ time.Duration) { f.ProcessedCount++ }
func (f *FakeMetrics) RecordPublished()                { f.PublishedCount++ }
func (f *FakeMetrics) RecordError()                    { f.ErrorCount++ }
func (f *FakeMetrics) IncrementCustom(name string)     { f.CustomIncrements[name]++ }

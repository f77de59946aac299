package orchestrator

import (
	"context"
	"time"

	"asteroid-alerting/internal/events"
	"asteroid-alerting/internal/neo"
)

// FakeFetcher is a test fake for AsteroidFetcher.
type FakeFetcher struct {
	Records []neo.AsteroidRecord
	Err     error
	Calls   int
	GotFrom time.Time
	GotTo   time.Time
}

func (f *FakeFetcher) FetchAsteroids(ctx context.Context, from, to time.Time) ([]neo.AsteroidRecord, error) {
	f.Calls++
	f.GotFrom, f.GotTo = from, to
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Records, nil
}

// FakePublisher is a test fake for EventPublisher.
type FakePublisher struct {
	Published   []*events.CollisionEvent
	Attempts    int
	PublishFunc func(event *events.CollisionEvent) error
}

func (f *FakePublisher) Publish(ctx context.Context, event *events.CollisionEvent) error {
	f.Attempts++
	if f.PublishFunc != nil {
		if err := f.PublishFunc(event); err != nil {
			return err
		}
	}
	f.Published = append(f.Published, event)
	return nil
}

// FakeMetrics is a test fake for MetricsRecorder.
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

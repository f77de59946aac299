package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"asteroid-alerting/internal/classifier"
	"asteroid-alerting/internal/events"
)

// DefaultWindowDays is how far ahead of today a run looks.
const DefaultWindowDays = 7

// ErrPartialPublish is returned when at least one event of a run failed to publish.
var ErrPartialPublish = errors.New("one or more collision events failed to publish")

// State is the phase a run is in.
type State string

const (
	StateFetching        State = "fetching"
	StateClassifying     State = "classifying"
	StatePublishing      State = "publishing"
	StateDone            State = "done"
	StatePartiallyFailed State = "partially_failed"
	StateFailed          State = "failed"
)

// RunResult summarizes one run.
type RunResult struct {
	State     State     `json:"state"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Fetched   int       `json:"fetched"`
	Hazardous int       `json:"hazardous"`
	Skipped   int       `json:"skipped"`
	Published int       `json:"published"`
	Failed    int       `json:"failed"`
}

// Orchestrator wires the data source, classifier and publisher together.
type Orchestrator struct {
	fetcher    AsteroidFetcher
	publisher  EventPublisher
	metrics    MetricsRecorder
	windowDays int
	now        func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(o *Orchestrator) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithWindowDays sets how many days past today a run covers.
func WithWindowDays(days int) Option {
	return func(o *Orchestrator) {
		if days >= 0 {
			o.windowDays = days
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// New creates an Orchestrator.
func New(fetcher AsteroidFetcher, publisher EventPublisher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fetcher:    fetcher,
		publisher:  publisher,
		metrics:    &NoOpMetrics{},
		windowDays: DefaultWindowDays,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one cycle. See RunWithProgress.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	return o.RunWithProgress(ctx, nil)
}

// RunWithProgress fetches the window starting today (UTC), classifies the records and
// publishes one event per hazardous record. progress, if non-nil, is called on every
// state change.
//
// A fetch failure publishes nothing and returns the fetch error. A publish failure does
// not stop the remaining publishes; the run then ends partially_failed and the error
// wraps ErrPartialPublish. A run that finds nothing hazardous ends done with no error.
func (o *Orchestrator) RunWithProgress(ctx context.Context, progress func(State)) (*RunResult, error) {
	start := time.Now()
	today := o.now().UTC().Truncate(24 * time.Hour)
	res := &RunResult{
		From: today,
		To:   today.AddDate(0, 0, o.windowDays),
	}
	setState := func(s State) {
		res.State = s
		if progress != nil {
			progress(s)
		}
	}

	setState(StateFetching)
	records, err := o.fetcher.FetchAsteroids(ctx, res.From, res.To)
	if err != nil {
		setState(StateFailed)
		o.metrics.RecordError()
		slog.Error("Failed to fetch asteroids",
			"from", res.From.Format(events.DateLayout),
			"to", res.To.Format(events.DateLayout),
			"error", err,
		)
		return res, fmt.Errorf("failed to fetch asteroids: %w", err)
	}
	res.Fetched = len(records)
	for range records {
		o.metrics.RecordReceived()
	}

	setState(StateClassifying)
	classified := classifier.Classify(records)
	res.Hazardous = len(classified.Events) + len(classified.MissingApproach)
	res.Skipped = len(classified.MissingApproach)
	for _, name := range classified.MissingApproach {
		o.metrics.IncrementCustom("events_skipped_no_approach")
		slog.Warn("Hazardous asteroid has no close approach data, skipping", "asteroid_name", name)
	}
	for i := 0; i < res.Hazardous; i++ {
		o.metrics.IncrementCustom("hazardous_found")
	}

	setState(StatePublishing)
	var errs []error
	for _, event := range classified.Events {
		if err := o.publisher.Publish(ctx, event); err != nil {
			res.Failed++
			o.metrics.RecordError()
			errs = append(errs, fmt.Errorf("%s: %w", event.Key(), err))
			continue
		}
		res.Published++
		o.metrics.RecordPublished()
	}

	o.metrics.RecordProcessed(time.Since(start))

	if len(errs) > 0 {
		setState(StatePartiallyFailed)
		slog.Warn("Run finished with publish failures",
			"fetched", res.Fetched,
			"hazardous", res.Hazardous,
			"published", res.Published,
			"failed", res.Failed,
		)
		return res, errors.Join(append([]error{ErrPartialPublish}, errs...)...)
	}

	setState(StateDone)
	slog.Info("Run finished",
		"from", res.From.Format(events.DateLayout),
		"to", res.To.Format(events.DateLayout),
		"fetched", res.Fetched,
		"hazardous", res.Hazardous,
		"skipped", res.Skipped,
		"published", res.Published,
	)
	return res, nil
}

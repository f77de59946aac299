// Package orchestrator runs one fetch, classify and publish cycle.
package orchestrator

import (
	"context"
	"time"

	"asteroid-alerting/internal/events"
	"asteroid-alerting/internal/neo"
)

// AsteroidFetcher returns the records whose close approach falls in [from, to].
type AsteroidFetcher interface {
	FetchAsteroids(ctx context.Context, from, to time.Time) ([]neo.AsteroidRecord, error)
}

// EventPublisher publishes one collision event and returns once the broker has acked it.
type EventPublisher interface {
	Publish(ctx context.Context, event *events.CollisionEvent) error
}

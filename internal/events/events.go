// Package events defines the CollisionEvent carried on the asteroid alerts topic.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SchemaVersion is the current CollisionEvent wire schema version.
const SchemaVersion = 1

// DateLayout is the ISO calendar date format used for close approach dates.
const DateLayout = "2006-01-02"

// ErrInvalidEvent is returned when a message cannot be decoded into a valid CollisionEvent.
var ErrInvalidEvent = errors.New("invalid collision event")

// CollisionEvent announces one hazardous asteroid's upcoming close approach.
// MissDistanceKilometers is kept as the exact decimal text from the data source.
type CollisionEvent struct {
	AsteroidName               string  `json:"asteroid_name"`
	CloseApproachDate          string  `json:"close_approach_date"`
	MissDistanceKilometers     string  `json:"miss_distance_kilometers"`
	EstimatedDiameterAvgMeters float64 `json:"estimated_diameter_avg_meters"`
	SchemaVersion              int     `json:"schema_version"`
}

// Key returns the identity of the asteroid/date pair the event refers to.
func (e *CollisionEvent) Key() string {
	return e.AsteroidName + "|" + e.CloseApproachDate
}

// ApproachDate parses CloseApproachDate.
func (e *CollisionEvent) ApproachDate() (time.Time, error) {
	return time.Parse(DateLayout, e.CloseApproachDate)
}

// MissDistance parses MissDistanceKilometers without losing precision.
func (e *CollisionEvent) MissDistance() (decimal.Decimal, error) {
	return decimal.NewFromString(e.MissDistanceKilometers)
}

// Validate checks that every field a notification record needs is present and parseable.
func (e *CollisionEvent) Validate() error {
	if e.AsteroidName == "" {
		return fmt.Errorf("%w: asteroid_name is empty", ErrInvalidEvent)
	}
	if _, err := e.ApproachDate(); err != nil {
		return fmt.Errorf("%w: close_approach_date %q: %v", ErrInvalidEvent, e.CloseApproachDate, err)
	}
	if _, err := e.MissDistance(); err != nil {
		return fmt.Errorf("%w: miss_distance_kilometers %q: %v", ErrInvalidEvent, e.MissDistanceKilometers, err)
	}
	return nil
}

// Encode serializes the event to its JSON wire form.
func Encode(e *CollisionEvent) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal collision event: %w", err)
	}
	return payload, nil
}

// Decode parses and validates a JSON wire message.
func Decode(data []byte) (*CollisionEvent, error) {
	var e CollisionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

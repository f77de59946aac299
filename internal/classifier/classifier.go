// Package classifier turns data source records into collision events.
package classifier

import (
	"asteroid-alerting/internal/events"
	"asteroid-alerting/internal/neo"
)

// Result holds the events derived from one batch of records.
type Result struct {
	// Events holds one event per hazardous record, in input order.
	Events []*events.CollisionEvent
	// MissingApproach lists hazardous records that had no close approach entry.
	MissingApproach []string
}

// Classify keeps the hazardous records and maps each to a CollisionEvent.
// Hazardous records without a close approach are excluded and reported in MissingApproach.
func Classify(records []neo.AsteroidRecord) Result {
	var res Result
	for _, rec := range Hazardous(records) {
		if len(rec.CloseApproaches) == 0 {
			res.MissingApproach = append(res.MissingApproach, rec.Name)
			continue
		}
		res.Events = append(res.Events, ToEvent(rec))
	}
	return res
}

// Hazardous returns the potentially hazardous records, preserving order.
func Hazardous(records []neo.AsteroidRecord) []neo.AsteroidRecord {
	var out []neo.AsteroidRecord
	for _, rec := range records {
		if rec.PotentiallyHazardous {
			out = append(out, rec)
		}
	}
	return out
}

// ToEvent builds the event for a record's first close approach.
// The record must have at least one close approach.
func ToEvent(rec neo.AsteroidRecord) *events.CollisionEvent {
	first := rec.CloseApproaches[0]
	return &events.CollisionEvent{
		AsteroidName:               rec.Name,
		CloseApproachDate:          first.Date.Format(events.DateLayout),
		MissDistanceKilometers:     first.MissDistanceKilometers,
		EstimatedDiameterAvgMeters: (rec.EstimatedDiameter.MinMeters + rec.EstimatedDiameter.MaxMeters) / 2,
		SchemaVersion:              events.SchemaVersion,
	}
}

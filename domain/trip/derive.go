package trip

import (
	"math"

	"cycleshare/domain/geo"
)

// DerivedFields is the analytical projection of one TripRecord. It is a
// pure function of the record, recomputable at any time, and never
// stored redundantly.
type DerivedFields struct {
	Month     int // 1-12
	DayOfWeek int // 0-6, 0 = Sunday
	Hour      int // 0-23

	// DistanceM is the great-circle distance in meters between the
	// trip endpoints. DistanceValid is false when malformed coordinate
	// values that passed validation produce a non-finite result; such
	// rows stay in the store but are excluded from distance aggregates.
	DistanceM     float64
	DistanceValid bool

	// DurationMinutes is ended_at minus started_at in fractional
	// minutes. Signed: inconsistent source clocks can make it zero or
	// negative, and it is deliberately not clamped.
	DurationMinutes float64
}

// DeriveFields computes the analytical projection for a record.
// Temporal buckets come from started_at exactly as stored: extracts
// carry naive local timestamps and are assumed to share one timezone
// convention, so no conversion is applied.
func DeriveFields(rec TripRecord) DerivedFields {
	dist := geo.HaversineDistance(rec.StartLat, rec.StartLng, rec.EndLat, rec.EndLng)

	return DerivedFields{
		Month:           int(rec.StartedAt.Month()),
		DayOfWeek:       int(rec.StartedAt.Weekday()),
		Hour:            rec.StartedAt.Hour(),
		DistanceM:       dist,
		DistanceValid:   !math.IsNaN(dist) && !math.IsInf(dist, 0),
		DurationMinutes: rec.EndedAt.Sub(rec.StartedAt).Minutes(),
	}
}

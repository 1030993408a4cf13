package testkit

import (
	"fmt"
	"math/rand"
	"time"

	"cycleshare/domain/trip"
)

// GeneratorConfig configures the synthetic trip generator
type GeneratorConfig struct {
	TripCount int       `json:"trip_count"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Seed      int64     `json:"seed"`

	// Dirty-row injection rates, matching the artifacts real extracts
	// carry: blank coordinates, free-form category values, clock skew
	// making ended_at precede started_at.
	MissingCoordRate  float64 `json:"missing_coord_rate"`
	UnknownTypeRate   float64 `json:"unknown_type_rate"`
	NegativeDurations float64 `json:"negative_durations"`

	StationCount int `json:"station_count"`
}

// DefaultGeneratorConfig returns sensible defaults for synthetic extracts
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		TripCount:         500,
		StartDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		EndDate:           time.Date(2024, 12, 31, 23, 0, 0, 0, time.Local),
		Seed:              42,
		MissingCoordRate:  0.02,
		UnknownTypeRate:   0.01,
		NegativeDurations: 0.005,
		StationCount:      25,
	}
}

// TripGenerator generates synthetic raw trips around a city-sized
// coordinate grid, deterministically from the seed.
type TripGenerator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewTripGenerator creates a new generator
func NewTripGenerator(config GeneratorConfig) *TripGenerator {
	return &TripGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces the configured number of raw trips.
func (g *TripGenerator) Generate() []trip.RawTrip {
	trips := make([]trip.RawTrip, 0, g.config.TripCount)
	for i := 0; i < g.config.TripCount; i++ {
		trips = append(trips, g.generateTrip(i))
	}
	return trips
}

// GenerateMonthly partitions generated trips into per-month extracts
// with the given number of rows duplicated across adjacent extracts,
// mimicking overlapping monthly source files.
func (g *TripGenerator) GenerateMonthly(overlap int) [][]trip.RawTrip {
	byMonth := make(map[int][]trip.RawTrip)
	for _, t := range g.Generate() {
		m := int(t.StartedAt.Month())
		byMonth[m] = append(byMonth[m], t)
	}

	var extracts [][]trip.RawTrip
	var prev []trip.RawTrip
	for m := 1; m <= 12; m++ {
		rows := byMonth[m]
		if len(rows) == 0 {
			continue
		}
		// Re-deliver the tail of the previous extract.
		if n := min(overlap, len(prev)); n > 0 {
			rows = append(append([]trip.RawTrip{}, prev[len(prev)-n:]...), rows...)
		}
		extracts = append(extracts, rows)
		prev = byMonth[m]
	}
	return extracts
}

func (g *TripGenerator) generateTrip(i int) trip.RawTrip {
	span := g.config.EndDate.Sub(g.config.StartDate)
	startedAt := g.config.StartDate.Add(time.Duration(g.rng.Int63n(int64(span))))
	duration := time.Duration(2+g.rng.Intn(58)) * time.Minute
	if g.rng.Float64() < g.config.NegativeDurations {
		duration = -duration
	}

	rideable := "classic_bike"
	switch {
	case g.rng.Float64() < g.config.UnknownTypeRate:
		rideable = "docked_bike" // retired category still present in old extracts
	case g.rng.Float64() < 0.4:
		rideable = "electric_bike"
	case g.rng.Float64() < 0.1:
		rideable = "electric_scooter"
	}

	member := "member"
	if g.rng.Float64() < 0.45 {
		member = "casual"
	}

	raw := trip.RawTrip{
		RideID:           fmt.Sprintf("ride_%06d", i+1),
		RideableType:     rideable,
		StartedAt:        startedAt,
		EndedAt:          startedAt.Add(duration),
		StartStationName: g.stationName(),
		EndStationName:   g.stationName(),
		MemberCasual:     member,
	}

	raw.StartLat = g.coord(41.88, 0.05)
	raw.StartLng = g.coord(-87.63, 0.05)
	raw.EndLat = g.coord(41.88, 0.05)
	raw.EndLng = g.coord(-87.63, 0.05)

	if g.rng.Float64() < g.config.MissingCoordRate {
		// Drop one endpoint entirely, as GPS dropouts do.
		raw.EndLat = nil
		raw.EndLng = nil
	}

	return raw
}

func (g *TripGenerator) stationName() string {
	// A fraction of rows have no station (dockless starts).
	if g.rng.Float64() < 0.05 {
		return ""
	}
	return fmt.Sprintf("Station %02d", g.rng.Intn(g.config.StationCount)+1)
}

func (g *TripGenerator) coord(center, spread float64) *float64 {
	v := center + (g.rng.Float64()*2-1)*spread
	return &v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

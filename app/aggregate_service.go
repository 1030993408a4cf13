package app

import (
	"context"

	"cycleshare/domain/trip"
	"cycleshare/internal/analysis"
	"cycleshare/internal/errors"
	"cycleshare/ports"
)

// topStationCount is the default N for the location-frequency table.
const topStationCount = 10

// AggregateService produces the result tables the reporting layer
// consumes. It reads one snapshot of the canonical store per query and
// holds no state of its own.
type AggregateService struct {
	store      ports.TripStore
	aggregator *analysis.Aggregator
}

// NewAggregateService creates the query service with the given outlier
// policy.
func NewAggregateService(store ports.TripStore, policy analysis.OutlierPolicy) *AggregateService {
	return &AggregateService{
		store:      store,
		aggregator: analysis.NewAggregator(policy),
	}
}

// ResultTables bundles every aggregate operation over one snapshot,
// plus the percentile diagnostics. Produced fresh per query, never
// persisted.
type ResultTables struct {
	TotalTrips int64 `json:"total_trips"`

	TopStations   map[trip.MemberClass][]analysis.StationCount         `json:"top_stations"`
	Temporal      map[trip.MemberClass]analysis.TemporalDistribution   `json:"temporal"`
	RideTypes     map[trip.MemberClass]map[trip.RideableType]int64     `json:"ride_types"`
	ElectricRates map[trip.MemberClass]float64                         `json:"electric_rates"`

	Distance analysis.FieldSummary `json:"distance"`
	Duration analysis.FieldSummary `json:"duration"`

	// Scalar diagnostics: the percentile thresholds themselves.
	DistanceP99 float64 `json:"distance_p99"`
	DurationP99 float64 `json:"duration_p99"`
}

// ComputeAll runs every aggregate operation over a single snapshot.
// Aggregate queries never partially fail: they either return complete
// tables over whatever data passed the filters, or fail outright when
// the store is unreadable.
func (s *AggregateService) ComputeAll(ctx context.Context) (*ResultTables, error) {
	recs, err := s.store.ScanAll(ctx)
	if err != nil {
		return nil, errors.StoreError("canonical store scan failed", err)
	}

	rows := analysis.BuildRows(recs)

	tables := &ResultTables{
		TotalTrips:    int64(len(rows)),
		TopStations:   s.aggregator.TopStations(rows, topStationCount),
		Temporal:      s.aggregator.Temporal(rows),
		RideTypes:     s.aggregator.RideTypes(rows),
		ElectricRates: s.aggregator.ElectricRates(rows),
	}

	if len(rows) == 0 {
		return tables, nil
	}

	distance, err := s.aggregator.DistanceSummary(rows)
	if err != nil {
		return nil, errors.Wrap(err, "distance summary failed")
	}
	duration, err := s.aggregator.DurationSummary(rows)
	if err != nil {
		return nil, errors.Wrap(err, "duration summary failed")
	}

	tables.Distance = distance
	tables.Duration = duration
	tables.DistanceP99 = distance.Upper
	tables.DurationP99 = duration.Upper
	return tables, nil
}

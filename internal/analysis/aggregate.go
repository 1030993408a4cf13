package analysis

import (
	"math"
	"sort"

	"cycleshare/domain/trip"

	"github.com/montanaflynn/stats"
)

// Row pairs a canonical record with its derived projection. Derivation
// happens once per snapshot; every aggregate reads from here.
type Row struct {
	Rec     trip.TripRecord
	Derived trip.DerivedFields
}

// BuildRows derives the analytical fields for a snapshot.
func BuildRows(recs []trip.TripRecord) []Row {
	rows := make([]Row, len(recs))
	for i, rec := range recs {
		rows[i] = Row{Rec: rec, Derived: trip.DeriveFields(rec)}
	}
	return rows
}

// Aggregator runs the grouped queries consumed by the reporting layer.
// Every operation partitions by member class, reads only its snapshot
// argument, and mutates nothing.
type Aggregator struct {
	policy OutlierPolicy
}

// NewAggregator creates an aggregator with the given outlier policy.
func NewAggregator(policy OutlierPolicy) *Aggregator {
	return &Aggregator{policy: policy}
}

// StationCount is one row of the location-frequency table.
type StationCount struct {
	Station string `json:"station"`
	Count   int64  `json:"count"`
}

// TopStations counts appearances of each station name across both the
// start and end roles, per member class, and returns the top n by count
// descending with ties broken by name ascending. Empty names are
// skipped: a missing station name is not a station.
func (a *Aggregator) TopStations(rows []Row, n int) map[trip.MemberClass][]StationCount {
	counts := make(map[trip.MemberClass]map[string]int64)
	for _, class := range trip.MemberClasses() {
		counts[class] = make(map[string]int64)
	}

	for _, row := range rows {
		byStation, ok := counts[row.Rec.MemberCasual]
		if !ok {
			continue
		}
		if row.Rec.StartStationName != "" {
			byStation[row.Rec.StartStationName]++
		}
		if row.Rec.EndStationName != "" {
			byStation[row.Rec.EndStationName]++
		}
	}

	out := make(map[trip.MemberClass][]StationCount, len(counts))
	for class, byStation := range counts {
		ranked := make([]StationCount, 0, len(byStation))
		for station, count := range byStation {
			ranked = append(ranked, StationCount{Station: station, Count: count})
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].Count != ranked[j].Count {
				return ranked[i].Count > ranked[j].Count
			}
			return ranked[i].Station < ranked[j].Station
		})
		if n > 0 && len(ranked) > n {
			ranked = ranked[:n]
		}
		out[class] = ranked
	}
	return out
}

// TemporalDistribution holds ride counts per calendar bucket. Every
// bucket is present even when its count is zero.
type TemporalDistribution struct {
	ByMonth     map[int]int64 `json:"by_month"`       // 1-12
	ByDayOfWeek map[int]int64 `json:"by_day_of_week"` // 0-6, 0 = Sunday
	ByHour      map[int]int64 `json:"by_hour"`        // 0-23
}

func newTemporalDistribution() TemporalDistribution {
	d := TemporalDistribution{
		ByMonth:     make(map[int]int64, 12),
		ByDayOfWeek: make(map[int]int64, 7),
		ByHour:      make(map[int]int64, 24),
	}
	for m := 1; m <= 12; m++ {
		d.ByMonth[m] = 0
	}
	for w := 0; w <= 6; w++ {
		d.ByDayOfWeek[w] = 0
	}
	for h := 0; h <= 23; h++ {
		d.ByHour[h] = 0
	}
	return d
}

// Temporal counts rides per month, day-of-week, and hour for each
// member class over the unfiltered dataset.
func (a *Aggregator) Temporal(rows []Row) map[trip.MemberClass]TemporalDistribution {
	out := make(map[trip.MemberClass]TemporalDistribution)
	for _, class := range trip.MemberClasses() {
		out[class] = newTemporalDistribution()
	}

	for _, row := range rows {
		dist, ok := out[row.Rec.MemberCasual]
		if !ok {
			continue
		}
		dist.ByMonth[row.Derived.Month]++
		dist.ByDayOfWeek[row.Derived.DayOfWeek]++
		dist.ByHour[row.Derived.Hour]++
	}
	return out
}

// RideTypes counts rides per rideable type for each member class over
// the unfiltered dataset. All recognized categories are present.
func (a *Aggregator) RideTypes(rows []Row) map[trip.MemberClass]map[trip.RideableType]int64 {
	out := make(map[trip.MemberClass]map[trip.RideableType]int64)
	for _, class := range trip.MemberClasses() {
		out[class] = map[trip.RideableType]int64{
			trip.RideableClassicBike:     0,
			trip.RideableElectricBike:    0,
			trip.RideableElectricScooter: 0,
		}
	}

	for _, row := range rows {
		byType, ok := out[row.Rec.MemberCasual]
		if !ok {
			continue
		}
		byType[row.Rec.RideableType]++
	}
	return out
}

// ElectricRates returns the percentage of rides on motor-assisted
// vehicles per member class, rounded to 2 decimal places. Groups with
// no rides report 0.
func (a *Aggregator) ElectricRates(rows []Row) map[trip.MemberClass]float64 {
	total := make(map[trip.MemberClass]int64)
	electric := make(map[trip.MemberClass]int64)
	for _, row := range rows {
		total[row.Rec.MemberCasual]++
		if row.Rec.RideableType.IsElectric() {
			electric[row.Rec.MemberCasual]++
		}
	}

	out := make(map[trip.MemberClass]float64)
	for _, class := range trip.MemberClasses() {
		if total[class] == 0 {
			out[class] = 0
			continue
		}
		out[class] = round2(100 * float64(electric[class]) / float64(total[class]))
	}
	return out
}

// FieldSummary is the trimmed-mean table for one derived field plus the
// percentile threshold the trimming used, exposed as a diagnostic.
type FieldSummary struct {
	MeanByClass map[trip.MemberClass]float64 `json:"mean_by_class"`
	Upper       float64                      `json:"upper_bound"` // the pXX cutoff itself
	Lower       float64                      `json:"lower_bound"`
}

// DistanceSummary computes the outlier-filtered mean distance per
// member class. Rows whose derived distance is non-finite are excluded
// here but still count toward every non-distance aggregate.
func (a *Aggregator) DistanceSummary(rows []Row) (FieldSummary, error) {
	return a.fieldSummary(rows, FieldDistance, func(r Row) (float64, bool) {
		return r.Derived.DistanceM, r.Derived.DistanceValid
	})
}

// DurationSummary computes the outlier-filtered mean ride duration in
// minutes per member class.
func (a *Aggregator) DurationSummary(rows []Row) (FieldSummary, error) {
	return a.fieldSummary(rows, FieldDuration, func(r Row) (float64, bool) {
		return r.Derived.DurationMinutes, true
	})
}

func (a *Aggregator) fieldSummary(rows []Row, field Field, value func(Row) (float64, bool)) (FieldSummary, error) {
	// Bounds are fit on the field's distribution across the full
	// dataset, not per group, so both populations are trimmed against
	// the same range.
	all := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v, ok := value(row); ok {
			all = append(all, v)
		}
	}

	bounds, err := a.policy.ComputeBounds(field, all)
	if err != nil {
		return FieldSummary{}, err
	}

	kept := make(map[trip.MemberClass][]float64)
	for _, row := range rows {
		v, ok := value(row)
		if !ok || !bounds.Within(v) {
			continue
		}
		kept[row.Rec.MemberCasual] = append(kept[row.Rec.MemberCasual], v)
	}

	summary := FieldSummary{
		MeanByClass: make(map[trip.MemberClass]float64),
		Upper:       bounds.Upper,
		Lower:       bounds.Lower,
	}
	for _, class := range trip.MemberClasses() {
		if len(kept[class]) == 0 {
			summary.MeanByClass[class] = 0
			continue
		}
		mean, err := stats.Mean(kept[class])
		if err != nil {
			return FieldSummary{}, err
		}
		summary.MeanByClass[class] = mean
	}
	return summary, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Package analysis holds the outlier policy and the aggregation engine:
// pure computations over a snapshot of the canonical store.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Field names a derived quantity the outlier policy can bound.
type Field string

const (
	FieldDistance Field = "distance"
	FieldDuration Field = "duration_minutes"
)

// OutlierPolicy defines the valid range for a derived field: a fixed
// absolute floor per field and a quantile-based upper bound recomputed
// per dataset snapshot. Rows outside the range are excluded from
// aggregates referencing the field; they are never deleted.
type OutlierPolicy struct {
	// Percentile is the upper-bound quantile level, e.g. 99.
	Percentile float64
	// Floors maps each field to the minimum a value must exceed.
	Floors map[Field]float64
}

// DefaultPolicy returns the standard trimming policy: p99 upper bound,
// distance > 10 m, duration > 1 min.
func DefaultPolicy() OutlierPolicy {
	return OutlierPolicy{
		Percentile: 99,
		Floors: map[Field]float64{
			FieldDistance: 10,
			FieldDuration: 1,
		},
	}
}

// Bounds is the computed valid range for one field over one snapshot.
type Bounds struct {
	Lower      float64 // fixed floor; values must be strictly greater
	Upper      float64 // interpolated percentile; values must be strictly smaller
	SampleSize int     // finite values the upper bound was computed from
}

// Within reports whether a value counts toward aggregates of the field.
func (b Bounds) Within(v float64) bool {
	return v > b.Lower && v < b.Upper
}

// ComputeBounds derives the valid range for a field from the full set
// of its values across the dataset. Non-finite values are ignored when
// fitting the upper bound. A small fraction of GPS/clock artifacts
// produce near-zero or extreme values that would otherwise dominate
// mean statistics; the percentile bound caps the long tail without an
// arbitrary absolute ceiling.
func (p OutlierPolicy) ComputeBounds(field Field, values []float64) (Bounds, error) {
	if p.Percentile <= 0 || p.Percentile > 100 {
		return Bounds{}, fmt.Errorf("percentile level %v out of range (0, 100]", p.Percentile)
	}

	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return Bounds{}, fmt.Errorf("no finite values for field %s", field)
	}

	sort.Float64s(finite)
	upper := stat.Quantile(p.Percentile/100, stat.LinInterp, finite, nil)

	return Bounds{
		Lower:      p.Floors[field],
		Upper:      upper,
		SampleSize: len(finite),
	}, nil
}

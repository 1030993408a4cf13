package analysis

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"
)

func TestComputeBoundsPercentileAboveMedian(t *testing.T) {
	values := make([]float64, 0, 1000)
	for i := 1; i <= 1000; i++ {
		values = append(values, float64(i))
	}

	policy := DefaultPolicy()
	bounds, err := policy.ComputeBounds(FieldDistance, values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	median, _ := stats.Median(values)
	if bounds.Upper < median {
		t.Errorf("p99 upper bound (%v) must be >= median (%v)", bounds.Upper, median)
	}
	max, _ := stats.Max(values)
	if bounds.Upper > max {
		t.Errorf("upper bound (%v) must not exceed the sample max (%v)", bounds.Upper, max)
	}
	if bounds.SampleSize != 1000 {
		t.Errorf("expected sample size 1000, got %d", bounds.SampleSize)
	}
}

func TestComputeBoundsAppliesFloor(t *testing.T) {
	policy := DefaultPolicy()

	bounds, err := policy.ComputeBounds(FieldDistance, []float64{5, 50, 500, 5000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bounds.Lower != 10 {
		t.Errorf("distance floor should be 10, got %v", bounds.Lower)
	}

	bounds, err = policy.ComputeBounds(FieldDuration, []float64{0.5, 5, 15, 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bounds.Lower != 1 {
		t.Errorf("duration floor should be 1, got %v", bounds.Lower)
	}
}

func TestBoundsWithinIsStrict(t *testing.T) {
	bounds := Bounds{Lower: 10, Upper: 100}

	tests := []struct {
		value float64
		want  bool
	}{
		{10, false},  // on the floor: excluded
		{10.1, true},
		{50, true},
		{100, false}, // on the upper bound: excluded
		{150, false},
		{-5, false},
	}
	for _, tt := range tests {
		if got := bounds.Within(tt.value); got != tt.want {
			t.Errorf("Within(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestComputeBoundsIgnoresNonFinite(t *testing.T) {
	policy := DefaultPolicy()
	values := []float64{10, 20, 30, math.NaN(), math.Inf(1), 40}

	bounds, err := policy.ComputeBounds(FieldDistance, values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bounds.SampleSize != 4 {
		t.Errorf("non-finite values must not count, got sample size %d", bounds.SampleSize)
	}
	if math.IsNaN(bounds.Upper) || math.IsInf(bounds.Upper, 0) {
		t.Errorf("upper bound must be finite, got %v", bounds.Upper)
	}
}

func TestComputeBoundsErrors(t *testing.T) {
	policy := DefaultPolicy()

	if _, err := policy.ComputeBounds(FieldDistance, nil); err == nil {
		t.Error("empty input should fail")
	}
	if _, err := policy.ComputeBounds(FieldDistance, []float64{math.NaN()}); err == nil {
		t.Error("all-non-finite input should fail")
	}

	bad := OutlierPolicy{Percentile: 0, Floors: map[Field]float64{}}
	if _, err := bad.ComputeBounds(FieldDistance, []float64{1, 2, 3}); err == nil {
		t.Error("zero percentile level should fail")
	}
}

func TestConfigurablePercentileLevel(t *testing.T) {
	values := make([]float64, 0, 100)
	for i := 1; i <= 100; i++ {
		values = append(values, float64(i))
	}

	p50 := OutlierPolicy{Percentile: 50, Floors: map[Field]float64{}}
	p99 := OutlierPolicy{Percentile: 99, Floors: map[Field]float64{}}

	b50, err := p50.ComputeBounds(FieldDuration, values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b99, err := p99.ComputeBounds(FieldDuration, values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b50.Upper >= b99.Upper {
		t.Errorf("p50 bound (%v) should sit below p99 bound (%v)", b50.Upper, b99.Upper)
	}
}

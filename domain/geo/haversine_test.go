package geo

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{
			name: "identical points",
			lat1: 0, lon1: 0, lat2: 0, lon2: 0,
			want: 0, tolerance: 0,
		},
		{
			name: "identical non-origin points",
			lat1: 41.88, lon1: -87.63, lat2: 41.88, lon2: -87.63,
			want: 0, tolerance: 0,
		},
		{
			name: "one degree of longitude at the equator",
			lat1: 0, lon1: 0, lat2: 0, lon2: 1,
			want: 111195, tolerance: 0.01, // relative
		},
		{
			name: "one degree of latitude",
			lat1: 40, lon1: -87, lat2: 41, lon2: -87,
			want: 111195, tolerance: 0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)

			if tt.tolerance == 0 {
				if got != tt.want {
					t.Errorf("expected exactly %v, got %v", tt.want, got)
				}
				return
			}

			if math.Abs(got-tt.want)/tt.want > tt.tolerance {
				t.Errorf("expected %v within %.0f%%, got %v", tt.want, tt.tolerance*100, got)
			}
		})
	}
}

func TestHaversineDistanceSymmetry(t *testing.T) {
	d1 := HaversineDistance(41.88, -87.63, 41.95, -87.65)
	d2 := HaversineDistance(41.95, -87.65, 41.88, -87.63)

	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance should be symmetric: %v vs %v", d1, d2)
	}
	if d1 <= 0 {
		t.Errorf("distinct points should have positive distance, got %v", d1)
	}
}

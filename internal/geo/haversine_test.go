package geo

import (
	"greenfield-planner/internal/domain"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Coordinates
		want float64
		tol  float64
	}{
		{
			name: "same point",
			a:    domain.Coordinates{Lat: 33.45, Lon: -112.07},
			b:    domain.Coordinates{Lat: 33.45, Lon: -112.07},
			want: 0,
			tol:  1e-9,
		},
		{
			name: "one degree of latitude",
			a:    domain.Coordinates{Lat: 0, Lon: 0},
			b:    domain.Coordinates{Lat: 1, Lon: 0},
			want: EarthRadiusKm * math.Pi / 180,
			tol:  1e-6,
		},
		{
			name: "quarter meridian",
			a:    domain.Coordinates{Lat: 0, Lon: 0},
			b:    domain.Coordinates{Lat: 90, Lon: 0},
			want: EarthRadiusKm * math.Pi / 2,
			tol:  1e-6,
		},
		{
			name: "phoenix to los angeles",
			a:    domain.Coordinates{Lat: 33.4484, Lon: -112.0740},
			b:    domain.Coordinates{Lat: 34.0522, Lon: -118.2437},
			want: 574,
			tol:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, tt.tol)
			assert.InDelta(t, got, HaversineKm(tt.b, tt.a), 1e-9, "distance must be symmetric")
		})
	}
}

func TestHaversineKmOutOfRangeIsFinite(t *testing.T) {
	got := HaversineKm(domain.Coordinates{Lat: 250, Lon: -720}, domain.Coordinates{Lat: -91, Lon: 400})

	assert.False(t, math.IsNaN(got))
	assert.False(t, math.IsInf(got, 0))
	assert.GreaterOrEqual(t, got, 0.0)
}

func TestScoringDistanceKm(t *testing.T) {
	assert.Equal(t, MinScoringDistanceKm, ScoringDistanceKm(0))
	assert.Equal(t, MinScoringDistanceKm, ScoringDistanceKm(0.05))
	assert.Equal(t, 10.0, ScoringDistanceKm(10))

	same := domain.Coordinates{Lat: 40.7, Lon: -74}
	assert.Equal(t, 0.1, ScoringDistanceKm(HaversineKm(same, same)))
}

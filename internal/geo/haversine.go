// Package geo provides great-circle distance helpers.
package geo

import (
	"greenfield-planner/internal/domain"
	"math"
)

const (
	// EarthRadiusKm is the mean Earth radius used by HaversineKm.
	EarthRadiusKm = 6371.0

	// MinScoringDistanceKm floors distances used in gravity scoring so that
	// co-located sites do not divide by zero.
	MinScoringDistanceKm = 0.1
)

// HaversineKm returns the great-circle distance between a and b in kilometers.
//
// Inputs are not range-checked; out-of-range degrees yield a finite but
// meaningless distance.
func HaversineKm(a, b domain.Coordinates) float64 {
	lat1 := degToRad(a.Lat)
	lat2 := degToRad(b.Lat)
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	// Rounding can push h marginally outside [0, 1] for antipodal points.
	h = math.Min(math.Max(h, 0), 1)

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ScoringDistanceKm returns d floored at MinScoringDistanceKm.
func ScoringDistanceKm(d float64) float64 {
	if d < MinScoringDistanceKm {
		return MinScoringDistanceKm
	}
	return d
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180
}

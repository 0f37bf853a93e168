package domain

// Immutable geographic coordinates (longitude, latitude) in decimal degrees.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Build coordinates from a [lon, lat] pair as returned by external APIs.
func CoordsFromList(v []float64) (Coordinates, bool) {
	if len(v) != 2 {
		return Coordinates{}, false
	}
	return Coordinates{Lon: v[0], Lat: v[1]}, true
}

package ports

import (
	"context"
	"greenfield-planner/internal/domain"
)

// Contract for resolving free-form addresses to coordinates.
type Geocoder interface {
	// Resolve many addresses at once. Keys of the result are the addresses as given.
	Geocode(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
}

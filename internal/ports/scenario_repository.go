package ports

import (
	"context"
	"errors"
	"greenfield-planner/internal/domain"
)

var ErrScenarioNotFound = errors.New("scenario not found")

// Listing entry for a stored scenario.
type ScenarioSummary struct {
	ID            string
	Name          string
	CustomerCount int
	FacilityCount int
	ProductCount  int
}

// Port: a boundary for loading planning datasets from a data source.
type ScenarioRepository interface {
	// List stored scenarios ordered by id.
	ListScenarios(ctx context.Context) ([]ScenarioSummary, error)
	// Load one scenario with sites in insertion order. Returns ErrScenarioNotFound if absent.
	LoadScenario(ctx context.Context, id string) (domain.Scenario, error)
}

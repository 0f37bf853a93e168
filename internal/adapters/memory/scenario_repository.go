package memory

import (
	"context"
	"fmt"
	"greenfield-planner/internal/domain"
	"greenfield-planner/internal/ports"
	"slices"
	"strings"
	"sync"
)

// In-memory implementation of the ScenarioRepository port.
// Used when no database is configured and by tests.
type ScenarioRepository struct {
	mu        sync.RWMutex
	scenarios map[string]domain.Scenario
}

func NewScenarioRepository(scenarios ...domain.Scenario) *ScenarioRepository {
	r := &ScenarioRepository{scenarios: make(map[string]domain.Scenario, len(scenarios))}
	for _, s := range scenarios {
		r.scenarios[s.ID] = s
	}
	return r
}

// Add or replace a scenario.
func (r *ScenarioRepository) Put(s domain.Scenario) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenarios[s.ID] = s
}

func (r *ScenarioRepository) ListScenarios(ctx context.Context) ([]ports.ScenarioSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ports.ScenarioSummary, 0, len(r.scenarios))
	for _, s := range r.scenarios {
		out = append(out, ports.ScenarioSummary{
			ID:            s.ID,
			Name:          s.Name,
			CustomerCount: len(s.Customers),
			FacilityCount: len(s.Facilities),
			ProductCount:  len(s.Products),
		})
	}
	slices.SortFunc(out, func(a, b ports.ScenarioSummary) int { return strings.Compare(a.ID, b.ID) })

	return out, nil
}

func (r *ScenarioRepository) LoadScenario(ctx context.Context, id string) (domain.Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.scenarios[id]
	if !ok {
		return domain.Scenario{}, fmt.Errorf("memory scenario repository: %q: %w", id, ports.ErrScenarioNotFound)
	}
	return s, nil
}

package ports

import (
	"context"
	"greenfield-planner/internal/domain"
)

// Cache of allocation results keyed by the content of their input.
// Results are deterministic, so a hit is always equivalent to recomputing.
type ResultCache interface {
	Get(ctx context.Context, in domain.PlanInput) (domain.Result, bool, error)
	Put(ctx context.Context, in domain.PlanInput, res domain.Result) error
}

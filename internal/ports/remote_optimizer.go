package ports

import (
	"context"
	"greenfield-planner/internal/domain"
)

// Offloads an allocation run to a remote solver service.
type RemoteOptimizer interface {
	Optimize(ctx context.Context, in domain.PlanInput) (domain.Result, error)
}

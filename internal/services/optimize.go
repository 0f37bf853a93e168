package services

import (
	"errors"
	"fmt"
	"greenfield-planner/internal/domain"
	"strings"
)

var ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

// NormalizeSettings fills the default algorithm and rejects unknown variants.
func NormalizeSettings(s domain.Settings) (domain.Settings, error) {
	s.Algorithm = strings.TrimSpace(s.Algorithm)
	if s.Algorithm == "" {
		s.Algorithm = domain.AlgorithmGreedyGravityV1
	}
	if s.Algorithm != domain.AlgorithmGreedyGravityV1 {
		return s, fmt.Errorf("normalize settings: %q: %w", s.Algorithm, ErrUnsupportedAlgorithm)
	}
	return s, nil
}

// Optimize runs one complete greenfield allocation with a fresh usage ledger.
//
// It is the single implementation behind the HTTP endpoint, the CLI and the
// remote-offload fallback. Infeasible demand is reported through the KPIs,
// never as an error.
func Optimize(in domain.PlanInput) (domain.Result, error) {
	settings, err := NormalizeSettings(in.Settings)
	if err != nil {
		return domain.Result{}, fmt.Errorf("optimize: %w", err)
	}

	ledger := domain.NewUsageLedger(in.Facilities)
	allocations, ledger := AllocateGravity(in.Customers, in.Facilities, in.Products, settings, ledger)
	kpis, usage := SummarizeAllocation(in.Customers, in.Facilities, in.Products, allocations, ledger, settings)

	return domain.Result{
		Success:       true,
		Allocations:   allocations,
		KPIs:          kpis,
		FacilityUsage: usage,
	}, nil
}

package services

import (
	"greenfield-planner/internal/domain"
	"greenfield-planner/internal/geo"
)

// AllocateGravity assigns customer demand to facilities with a greedy gravity heuristic.
//
// For every customer and product (in input order) with positive demand, each facility
// whose remaining capacity covers the full demand is scored by
// capacity × demand / distance², and the highest score wins. Ties keep the
// earliest facility. Demand that fits nowhere is left unmet.
// The result is deterministic but not globally optimal.
//
// ledger is owned by the caller and is mutated and returned. A nil ledger, or
// one not built from a facility slice of the same length, is replaced by a
// fresh ledger.
func AllocateGravity(
	customers []domain.Customer,
	facilities []domain.Facility,
	products []domain.Product,
	settings domain.Settings,
	ledger *domain.UsageLedger,
) ([]domain.Allocation, *domain.UsageLedger) {
	if ledger == nil || len(ledger.Facilities) != len(facilities) {
		ledger = domain.NewUsageLedger(facilities)
	}

	allocations := make([]domain.Allocation, 0, len(customers)*len(products))

	for _, c := range customers {
		// Distances depend only on the (customer, facility) pair.
		distances := make([]float64, len(facilities))
		for fi, f := range facilities {
			distances[fi] = geo.HaversineKm(c.Location, f.Location)
		}

		for _, p := range products {
			demand := c.DemandFor(p.ID)
			// Negated comparisons also skip NaN.
			if !(demand > 0) {
				continue
			}

			best := -1
			bestScore := 0.0
			for fi, f := range facilities {
				if !(ledger.Facilities[fi].Remaining(f, p.ID) >= demand) {
					continue
				}

				d := geo.ScoringDistanceKm(distances[fi])
				score := f.CapacityFor(p.ID) * demand / (d * d)
				// Strict comparison keeps the first facility on ties.
				if best == -1 || score > bestScore {
					best = fi
					bestScore = score
				}
			}

			if best == -1 {
				continue
			}

			f := facilities[best]
			if err := ledger.Facilities[best].Commit(f, p.ID, demand, c.ID); err != nil {
				continue
			}

			allocations = append(allocations, domain.Allocation{
				CustomerID:    c.ID,
				CustomerName:  c.Name,
				FacilityID:    f.ID,
				FacilityName:  f.Name,
				ProductID:     p.ID,
				Quantity:      demand,
				DistanceKm:    distances[best],
				TransportCost: distances[best] * settings.TransportCostPerKm * demand,
			})
		}
	}

	return allocations, ledger
}

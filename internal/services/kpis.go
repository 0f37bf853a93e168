package services

import "greenfield-planner/internal/domain"

// SummarizeAllocation folds a completed run into KPIs and per-facility utilization.
// It holds no state of its own; the ledger is only read.
func SummarizeAllocation(
	customers []domain.Customer,
	facilities []domain.Facility,
	products []domain.Product,
	allocations []domain.Allocation,
	ledger *domain.UsageLedger,
	settings domain.Settings,
) (domain.KPIs, []domain.FacilitySummary) {
	var k domain.KPIs

	for _, a := range allocations {
		k.TransportCost += a.TransportCost
		k.TotalDistance += a.DistanceKm
		k.AllocatedDemand += a.Quantity
	}

	for _, c := range customers {
		for _, p := range products {
			// Non-positive demand is skipped by the allocator and is not counted here either.
			if d := c.DemandFor(p.ID); d > 0 {
				k.TotalDemand += d
			}
		}
	}

	summaries := make([]domain.FacilitySummary, 0, len(facilities))
	for fi, f := range facilities {
		usage := ledger.Facilities[fi]
		if usage.Opened() {
			k.FacilitiesUsed++
		}

		util := make([]domain.Utilization, 0, len(products))
		for _, p := range products {
			used := usage.Used[p.ID]
			capacity := f.CapacityFor(p.ID)
			pct := 0.0
			if capacity > 0 {
				pct = 100 * used / capacity
			}
			util = append(util, domain.Utilization{
				ProductID:  p.ID,
				Used:       used,
				Capacity:   capacity,
				Percentage: pct,
			})
		}

		served := make([]string, len(usage.CustomersServed))
		copy(served, usage.CustomersServed)

		summaries = append(summaries, domain.FacilitySummary{
			ID:              f.ID,
			Name:            f.Name,
			CustomersServed: served,
			Utilization:     util,
		})
	}

	k.FixedCost = float64(k.FacilitiesUsed) * settings.FixedCostPerFacility
	k.TotalCost = k.TransportCost + k.FixedCost
	k.UnmetDemand = k.TotalDemand - k.AllocatedDemand

	if k.TotalDemand > 0 {
		k.ServiceLevel = 100 * k.AllocatedDemand / k.TotalDemand
	}
	if len(allocations) > 0 {
		k.AvgDistance = k.TotalDistance / float64(len(allocations))
	}

	return k, summaries
}

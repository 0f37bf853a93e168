package remote

import "greenfield-planner/internal/domain"

func toRequest(in domain.PlanInput) optimizeRequest {
	req := optimizeRequest{
		Customers:  make([]siteJSON, 0, len(in.Customers)),
		Facilities: make([]siteJSON, 0, len(in.Facilities)),
		Products:   make([]productJSON, 0, len(in.Products)),
		Settings: settingsJSON{
			TransportCostPerKm:   in.Settings.TransportCostPerKm,
			FixedCostPerFacility: in.Settings.FixedCostPerFacility,
			Algorithm:            in.Settings.Algorithm,
		},
	}

	for _, c := range in.Customers {
		req.Customers = append(req.Customers, siteJSON{
			ID:         c.ID,
			Name:       c.Name,
			Location:   c.Location.CoordsToList(),
			Quantities: c.Demand,
		})
	}
	for _, f := range in.Facilities {
		req.Facilities = append(req.Facilities, siteJSON{
			ID:         f.ID,
			Name:       f.Name,
			Location:   f.Location.CoordsToList(),
			Quantities: f.Capacity,
		})
	}
	for _, p := range in.Products {
		req.Products = append(req.Products, productJSON{ID: p.ID, Name: p.Name})
	}

	return req
}

func fromResponse(resp optimizeResponse) domain.Result {
	res := domain.Result{
		Success:       true,
		Allocations:   make([]domain.Allocation, 0, len(resp.Assignments)),
		FacilityUsage: make([]domain.FacilitySummary, 0, len(resp.FacilityUsage)),
		KPIs: domain.KPIs{
			TotalCost:       resp.Summary.TotalCost,
			TransportCost:   resp.Summary.TransportationCost,
			FixedCost:       resp.Summary.FixedCost,
			FacilitiesUsed:  resp.Summary.FacilitiesOpened,
			TotalDistance:   resp.Summary.TotalDistanceKm,
			AvgDistance:     resp.Summary.AverageDistanceKm,
			ServiceLevel:    resp.Summary.ServiceLevelPct,
			AllocatedDemand: resp.Summary.AllocatedDemand,
			UnmetDemand:     resp.Summary.UnmetDemand,
			TotalDemand:     resp.Summary.TotalDemand,
		},
	}

	for _, a := range resp.Assignments {
		res.Allocations = append(res.Allocations, domain.Allocation{
			CustomerID:    a.CustomerID,
			CustomerName:  a.CustomerName,
			FacilityID:    a.FacilityID,
			FacilityName:  a.FacilityName,
			ProductID:     a.Product,
			Quantity:      a.Quantity,
			DistanceKm:    a.DistanceKm,
			TransportCost: a.TransportationCost,
		})
	}

	for _, u := range resp.FacilityUsage {
		util := make([]domain.Utilization, 0, len(u.Utilization))
		for _, x := range u.Utilization {
			util = append(util, domain.Utilization{
				ProductID:  x.Product,
				Used:       x.Used,
				Capacity:   x.Capacity,
				Percentage: x.UtilizationPct,
			})
		}
		served := u.CustomersServed
		if served == nil {
			served = []string{}
		}
		res.FacilityUsage = append(res.FacilityUsage, domain.FacilitySummary{
			ID:              u.FacilityID,
			Name:            u.FacilityName,
			CustomersServed: served,
			Utilization:     util,
		})
	}

	return res
}

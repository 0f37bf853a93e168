package remote

// Wire types of the remote GFA solver. Field names differ from the local
// result shape and are reconciled in mapping.go.

type siteJSON struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Location   []float64          `json:"location"`
	Quantities map[string]float64 `json:"quantities"`
}

type productJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type settingsJSON struct {
	TransportCostPerKm   float64 `json:"transport_cost_per_km"`
	FixedCostPerFacility float64 `json:"fixed_cost_per_facility"`
	Algorithm            string  `json:"algorithm"`
}

type optimizeRequest struct {
	Customers  []siteJSON    `json:"customers"`
	Facilities []siteJSON    `json:"facilities"`
	Products   []productJSON `json:"products"`
	Settings   settingsJSON  `json:"settings"`
}

type assignmentJSON struct {
	CustomerID         string  `json:"customer_id"`
	CustomerName       string  `json:"customer_name"`
	FacilityID         string  `json:"facility_id"`
	FacilityName       string  `json:"facility_name"`
	Product            string  `json:"product"`
	Quantity           float64 `json:"quantity"`
	DistanceKm         float64 `json:"distance_km"`
	TransportationCost float64 `json:"transportation_cost"`
}

type summaryJSON struct {
	TotalCost          float64 `json:"total_cost"`
	TransportationCost float64 `json:"transportation_cost"`
	FixedCost          float64 `json:"fixed_cost"`
	FacilitiesOpened   int     `json:"facilities_opened"`
	TotalDistanceKm    float64 `json:"total_distance_km"`
	AverageDistanceKm  float64 `json:"average_distance_km"`
	ServiceLevelPct    float64 `json:"service_level_pct"`
	AllocatedDemand    float64 `json:"allocated_demand"`
	UnmetDemand        float64 `json:"unmet_demand"`
	TotalDemand        float64 `json:"total_demand"`
}

type utilizationJSON struct {
	Product        string  `json:"product"`
	Used           float64 `json:"used"`
	Capacity       float64 `json:"capacity"`
	UtilizationPct float64 `json:"utilization_pct"`
}

type facilityUsageJSON struct {
	FacilityID      string            `json:"facility_id"`
	FacilityName    string            `json:"facility_name"`
	CustomersServed []string          `json:"customers_served"`
	Utilization     []utilizationJSON `json:"utilization"`
}

type optimizeResponse struct {
	Status        string              `json:"status"`
	Error         string              `json:"error"`
	Assignments   []assignmentJSON    `json:"assignments"`
	Summary       summaryJSON         `json:"summary"`
	FacilityUsage []facilityUsageJSON `json:"facility_usage"`
}

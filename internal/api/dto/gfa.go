package dto

import (
	"greenfield-planner/internal/adapters/scenariofile"
	"greenfield-planner/internal/domain"

	"github.com/shopspring/decimal"
)

// Cost parameters of a request. Nil fields fall back to the server defaults.
type SettingsRequest struct {
	TransportCostPerDistanceUnit *float64 `json:"transportCostPerDistanceUnit"`
	FixedCostPerFacility         *float64 `json:"fixedCostPerFacility"`
	Algorithm                    string   `json:"algorithm"`
}

// OptimizeRequest selects a stored scenario by id or carries the dataset inline.
type OptimizeRequest struct {
	ScenarioID   string                     `json:"scenario_id"`
	Customers    []scenariofile.SiteFile    `json:"customers"`
	Facilities   []scenariofile.SiteFile    `json:"facilities"`
	Products     []scenariofile.ProductFile `json:"products"`
	Settings     SettingsRequest            `json:"settings"`
	PreferRemote bool                       `json:"prefer_remote"`
}

type VariantRequest struct {
	Name        string          `json:"name"`
	Settings    SettingsRequest `json:"settings"`
	FacilityIDs []string        `json:"facility_ids"`
}

type CompareRequest struct {
	ScenarioID string                     `json:"scenario_id"`
	Customers  []scenariofile.SiteFile    `json:"customers"`
	Facilities []scenariofile.SiteFile    `json:"facilities"`
	Products   []scenariofile.ProductFile `json:"products"`
	Settings   SettingsRequest            `json:"settings"`
	Variants   []VariantRequest           `json:"variants"`
}

type AllocationResponse struct {
	CustomerID    string  `json:"customerId"`
	CustomerName  string  `json:"customerName"`
	FacilityID    string  `json:"facilityId"`
	FacilityName  string  `json:"facilityName"`
	Product       string  `json:"product"`
	Quantity      float64 `json:"quantity"`
	Distance      float64 `json:"distance"`
	TransportCost float64 `json:"transportCost"`
}

type KPIResponse struct {
	TotalCost       float64 `json:"totalCost"`
	TransportCost   float64 `json:"transportCost"`
	FixedCost       float64 `json:"fixedCost"`
	FacilitiesUsed  int     `json:"facilitiesUsed"`
	TotalDistance   float64 `json:"totalDistance"`
	AvgDistance     float64 `json:"avgDistance"`
	ServiceLevel    float64 `json:"serviceLevel"`
	AllocatedDemand float64 `json:"allocatedDemand"`
	UnmetDemand     float64 `json:"unmetDemand"`
	TotalDemand     float64 `json:"totalDemand"`
}

type UtilizationResponse struct {
	Product    string  `json:"product"`
	Used       float64 `json:"used"`
	Capacity   float64 `json:"capacity"`
	Percentage float64 `json:"percentage"`
}

type FacilityUsageResponse struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	CustomersServed []string              `json:"customersServed"`
	Utilization     []UtilizationResponse `json:"utilization"`
}

type OptimizeResponse struct {
	RunID         string                  `json:"run_id"`
	Source        string                  `json:"source"`
	Success       bool                    `json:"success"`
	Allocation    []AllocationResponse    `json:"allocation"`
	KPIs          KPIResponse             `json:"kpis"`
	FacilityUsage []FacilityUsageResponse `json:"facilityUsage"`
}

type VariantResponse struct {
	Name          string                  `json:"name"`
	KPIs          KPIResponse             `json:"kpis"`
	FacilityUsage []FacilityUsageResponse `json:"facilityUsage"`
}

type CompareResponse struct {
	RunID    string            `json:"run_id"`
	Variants []VariantResponse `json:"variants"`
}

type ScenarioSummaryResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CustomerCount int    `json:"customer_count"`
	FacilityCount int    `json:"facility_count"`
	ProductCount  int    `json:"product_count"`
}

type ListScenariosResponse struct {
	Scenarios []ScenarioSummaryResponse `json:"scenarios"`
}

// Money is reported in cents; everything else keeps full precision.
func roundMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func NewKPIResponse(k domain.KPIs) KPIResponse {
	return KPIResponse{
		TotalCost:       roundMoney(k.TotalCost),
		TransportCost:   roundMoney(k.TransportCost),
		FixedCost:       roundMoney(k.FixedCost),
		FacilitiesUsed:  k.FacilitiesUsed,
		TotalDistance:   k.TotalDistance,
		AvgDistance:     k.AvgDistance,
		ServiceLevel:    k.ServiceLevel,
		AllocatedDemand: k.AllocatedDemand,
		UnmetDemand:     k.UnmetDemand,
		TotalDemand:     k.TotalDemand,
	}
}

func NewFacilityUsageResponse(usage []domain.FacilitySummary) []FacilityUsageResponse {
	out := make([]FacilityUsageResponse, 0, len(usage))
	for _, f := range usage {
		served := f.CustomersServed
		if served == nil {
			served = []string{}
		}
		util := make([]UtilizationResponse, 0, len(f.Utilization))
		for _, u := range f.Utilization {
			util = append(util, UtilizationResponse{
				Product:    u.ProductID,
				Used:       u.Used,
				Capacity:   u.Capacity,
				Percentage: u.Percentage,
			})
		}
		out = append(out, FacilityUsageResponse{
			ID:              f.ID,
			Name:            f.Name,
			CustomersServed: served,
			Utilization:     util,
		})
	}
	return out
}

func NewOptimizeResponse(runID, source string, res domain.Result) OptimizeResponse {
	allocs := make([]AllocationResponse, 0, len(res.Allocations))
	for _, a := range res.Allocations {
		allocs = append(allocs, AllocationResponse{
			CustomerID:    a.CustomerID,
			CustomerName:  a.CustomerName,
			FacilityID:    a.FacilityID,
			FacilityName:  a.FacilityName,
			Product:       a.ProductID,
			Quantity:      a.Quantity,
			Distance:      a.DistanceKm,
			TransportCost: roundMoney(a.TransportCost),
		})
	}

	return OptimizeResponse{
		RunID:         runID,
		Source:        source,
		Success:       res.Success,
		Allocation:    allocs,
		KPIs:          NewKPIResponse(res.KPIs),
		FacilityUsage: NewFacilityUsageResponse(res.FacilityUsage),
	}
}

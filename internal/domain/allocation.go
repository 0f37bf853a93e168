package domain

// Algorithm variants. Only the greedy gravity heuristic exists today; any other
// optimizer must be added as a new variant so existing results stay reproducible.
const (
	AlgorithmGreedyGravityV1 = "greedy-gravity-v1"
)

// Cost parameters for one allocation run.
type Settings struct {
	TransportCostPerKm   float64
	FixedCostPerFacility float64
	Algorithm            string
}

// One successfully assigned (customer, product) demand. Immutable once created.
type Allocation struct {
	CustomerID    string
	CustomerName  string
	FacilityID    string
	FacilityName  string
	ProductID     string
	Quantity      float64
	DistanceKm    float64
	TransportCost float64
}

// Aggregate cost and service metrics for a run.
type KPIs struct {
	TotalCost       float64
	TransportCost   float64
	FixedCost       float64
	FacilitiesUsed  int
	TotalDistance   float64
	AvgDistance     float64
	ServiceLevel    float64
	AllocatedDemand float64
	UnmetDemand     float64
	TotalDemand     float64
}

type Utilization struct {
	ProductID  string
	Used       float64
	Capacity   float64
	Percentage float64
}

// Read-only view of one facility after a run.
type FacilitySummary struct {
	ID              string
	Name            string
	CustomersServed []string
	Utilization     []Utilization
}

// Complete output of one allocation run.
type Result struct {
	Success       bool
	Allocations   []Allocation
	KPIs          KPIs
	FacilityUsage []FacilitySummary
}

// Everything one allocation run depends on. Identical inputs produce identical results.
type PlanInput struct {
	Customers  []Customer
	Facilities []Facility
	Products   []Product
	Settings   Settings
}

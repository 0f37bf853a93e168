package domain

// A product identifier shared by customer demand and facility capacity maps.
type Product struct {
	ID   string
	Name string
}

// A demand point. Each (customer, product) demand is atomic: it is either
// served in full by one facility or left unmet.
type Customer struct {
	ID          string
	Name        string
	Address     string
	Location    Coordinates
	HasLocation bool
	Demand      map[string]float64
}

// Return the declared demand for a product (0 when absent).
func (c Customer) DemandFor(productID string) float64 {
	return c.Demand[productID]
}

// A candidate or existing distribution center with a capacity ceiling per product.
type Facility struct {
	ID          string
	Name        string
	Address     string
	Location    Coordinates
	HasLocation bool
	Capacity    map[string]float64
}

// Return the declared capacity for a product. A missing entry means the
// facility cannot serve that product.
func (f Facility) CapacityFor(productID string) float64 {
	return f.Capacity[productID]
}

// A named planning dataset: the customers, facilities and products one run is computed over.
type Scenario struct {
	ID         string
	Name       string
	Customers  []Customer
	Facilities []Facility
	Products   []Product
}

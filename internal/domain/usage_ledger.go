package domain

import "fmt"

// Run-scoped consumption record for a single facility.
type FacilityUsage struct {
	FacilityID      string
	FacilityName    string
	Used            map[string]float64
	CustomersServed []string
	served          map[string]struct{}
}

// Caller-owned accumulator for one allocation run. Entries are aligned with the
// facility slice the ledger was created from. A ledger must not be shared
// between concurrent runs.
type UsageLedger struct {
	Facilities []*FacilityUsage
}

func NewUsageLedger(facilities []Facility) *UsageLedger {
	l := &UsageLedger{Facilities: make([]*FacilityUsage, 0, len(facilities))}
	for _, f := range facilities {
		l.Facilities = append(l.Facilities, &FacilityUsage{
			FacilityID:   f.ID,
			FacilityName: f.Name,
			Used:         make(map[string]float64),
			served:       make(map[string]struct{}),
		})
	}
	return l
}

// Remaining capacity of facility f for a product.
func (u *FacilityUsage) Remaining(f Facility, productID string) float64 {
	return f.CapacityFor(productID) - u.Used[productID]
}

// Commit assigns qty of a product to the facility on behalf of a customer.
// It refuses non-positive or NaN quantities and any commit that would push
// usage above the declared capacity.
func (u *FacilityUsage) Commit(f Facility, productID string, qty float64, customerID string) error {
	if !(qty > 0 && qty <= u.Remaining(f, productID)) {
		return fmt.Errorf(
			"commit usage: facility %q cannot take %g of %q (remaining=%g)",
			u.FacilityID, qty, productID, u.Remaining(f, productID),
		)
	}

	u.Used[productID] += qty
	if _, ok := u.served[customerID]; !ok {
		u.served[customerID] = struct{}{}
		u.CustomersServed = append(u.CustomersServed, customerID)
	}
	return nil
}

// Whether the facility served at least one customer during the run.
func (u *FacilityUsage) Opened() bool {
	return len(u.CustomersServed) > 0
}

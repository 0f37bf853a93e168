package main

import (
	"encoding/json"
	"fmt"
	"greenfield-planner/internal/api/dto"
	"greenfield-planner/internal/domain"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
)

func writeJSON(w io.Writer, source string, res domain.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dto.NewOptimizeResponse(uuid.NewString(), source, res))
}

func writeText(w io.Writer, sc domain.Scenario, source string, res domain.Result) error {
	out := dto.NewOptimizeResponse("", source, res)
	k := out.KPIs

	fmt.Fprintf(w, "Greenfield allocation (%s)\n", source)
	fmt.Fprintf(w, "Customers: %d  Facilities: %d  Products: %d\n\n", len(sc.Customers), len(sc.Facilities), len(sc.Products))

	fmt.Fprintln(w, "KPIs")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Total cost\t%.2f\n", k.TotalCost)
	fmt.Fprintf(tw, "  Transport cost\t%.2f\n", k.TransportCost)
	fmt.Fprintf(tw, "  Fixed cost\t%.2f\n", k.FixedCost)
	fmt.Fprintf(tw, "  Facilities used\t%d\n", k.FacilitiesUsed)
	fmt.Fprintf(tw, "  Total distance (km)\t%.2f\n", k.TotalDistance)
	fmt.Fprintf(tw, "  Avg distance (km)\t%.2f\n", k.AvgDistance)
	fmt.Fprintf(tw, "  Service level\t%.1f%%\n", k.ServiceLevel)
	fmt.Fprintf(tw, "  Demand allocated / unmet / total\t%g / %g / %g\n", k.AllocatedDemand, k.UnmetDemand, k.TotalDemand)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nAllocations")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  CUSTOMER\tFACILITY\tPRODUCT\tQTY\tKM\tCOST")
	for _, a := range out.Allocation {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%g\t%.2f\t%.2f\n", a.CustomerID, a.FacilityID, a.Product, a.Quantity, a.Distance, a.TransportCost)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nFacility utilization")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  FACILITY\tPRODUCT\tUSED\tCAPACITY\tPCT\tCUSTOMERS")
	for _, f := range out.FacilityUsage {
		for _, u := range f.Utilization {
			fmt.Fprintf(tw, "  %s\t%s\t%g\t%g\t%.1f%%\t%d\n", f.ID, u.Product, u.Used, u.Capacity, u.Percentage, len(f.CustomersServed))
		}
	}
	return tw.Flush()
}

package scenariofile

import (
	"encoding/csv"
	"fmt"
	"greenfield-planner/internal/domain"
	"math"
	"os"
	"strconv"
	"strings"
)

var siteHeader = []string{"id", "name", "lat", "lon"}

type csvSite struct {
	ID         string
	Name       string
	Location   domain.Coordinates
	Quantities map[string]float64
}

// LoadCSV builds a scenario from a customers file (quantities are demand) and a
// facilities file (quantities are capacity). Both start with the columns
// id,name,lat,lon; every further column is a product id. Products keep the
// order of first appearance across the two headers.
func LoadCSV(id, customersPath, facilitiesPath string) (domain.Scenario, error) {
	customerRows, customerProducts, err := readSites(customersPath)
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("load customers csv: %w", err)
	}
	facilityRows, facilityProducts, err := readSites(facilitiesPath)
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("load facilities csv: %w", err)
	}

	s := domain.Scenario{ID: id, Name: id}

	seen := map[string]struct{}{}
	for _, p := range append(customerProducts, facilityProducts...) {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		s.Products = append(s.Products, domain.Product{ID: p, Name: p})
	}

	for _, r := range customerRows {
		s.Customers = append(s.Customers, domain.Customer{
			ID:          r.ID,
			Name:        r.Name,
			Location:    r.Location,
			HasLocation: true,
			Demand:      r.Quantities,
		})
	}
	for _, r := range facilityRows {
		s.Facilities = append(s.Facilities, domain.Facility{
			ID:          r.ID,
			Name:        r.Name,
			Location:    r.Location,
			HasLocation: true,
			Capacity:    r.Quantities,
		})
	}

	return s, nil
}

func readSites(path string) ([]csvSite, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(records) < 1 {
		return nil, nil, fmt.Errorf("%s: missing header", path)
	}

	header := records[0]
	if len(header) < len(siteHeader) {
		return nil, nil, fmt.Errorf("%s: header must start with %v, got %v", path, siteHeader, header)
	}
	for i, col := range siteHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != col {
			return nil, nil, fmt.Errorf("%s: header must start with %v, got %v", path, siteHeader, header)
		}
	}

	products := make([]string, 0, len(header)-len(siteHeader))
	for _, col := range header[len(siteHeader):] {
		p := strings.TrimSpace(col)
		if p == "" {
			return nil, nil, fmt.Errorf("%s: empty product column in header", path)
		}
		products = append(products, p)
	}

	seen := map[string]struct{}{}
	sites := make([]csvSite, 0, len(records)-1)
	for i, record := range records[1:] {
		row := i + 2
		if len(record) != len(header) {
			return nil, nil, fmt.Errorf("%s row %d: expected %d columns, got %d", path, row, len(header), len(record))
		}

		id := strings.TrimSpace(record[0])
		if id == "" {
			return nil, nil, fmt.Errorf("%s row %d: id cannot be empty", path, row)
		}
		if _, ok := seen[id]; ok {
			return nil, nil, fmt.Errorf("%s row %d: duplicate id %q", path, row, id)
		}
		seen[id] = struct{}{}

		lat, err := parseFinite(record[2])
		if err != nil {
			return nil, nil, fmt.Errorf("%s row %d: invalid lat: %w", path, row, err)
		}
		lon, err := parseFinite(record[3])
		if err != nil {
			return nil, nil, fmt.Errorf("%s row %d: invalid lon: %w", path, row, err)
		}

		quantities := make(map[string]float64, len(products))
		for j, p := range products {
			cell := strings.TrimSpace(record[len(siteHeader)+j])
			if cell == "" {
				continue
			}
			q, err := parseFinite(cell)
			if err != nil {
				return nil, nil, fmt.Errorf("%s row %d: invalid quantity for %q: %w", path, row, p, err)
			}
			quantities[p] = q
		}

		sites = append(sites, csvSite{
			ID:         id,
			Name:       strings.TrimSpace(record[1]),
			Location:   domain.Coordinates{Lat: lat, Lon: lon},
			Quantities: quantities,
		})
	}

	return sites, products, nil
}

// parseFinite rejects NaN and infinities, which strconv accepts.
func parseFinite(cell string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", cell)
	}
	return v, nil
}

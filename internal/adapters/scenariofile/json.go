// Package scenariofile reads planning scenarios from JSON and CSV files.
package scenariofile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"greenfield-planner/internal/domain"
	"io"
	"os"
	"slices"
	"strings"
)

type ProductFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SiteFile struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Address   string             `json:"address,omitempty"`
	Latitude  *float64           `json:"latitude,omitempty"`
	Longitude *float64           `json:"longitude,omitempty"`
	Demand    map[string]float64 `json:"demand,omitempty"`
	Capacity  map[string]float64 `json:"capacity,omitempty"`
}

type ScenarioFile struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Products   []ProductFile `json:"products"`
	Customers  []SiteFile    `json:"customers"`
	Facilities []SiteFile    `json:"facilities"`
}

// LoadJSON reads one scenario object or an array of scenarios from path.
func LoadJSON(path string) ([]domain.Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario json: open %q: %w", path, err)
	}
	defer f.Close()

	scenarios, err := DecodeJSON(f)
	if err != nil {
		return nil, fmt.Errorf("load scenario json %q: %w", path, err)
	}
	return scenarios, nil
}

func DecodeJSON(r io.Reader) ([]domain.Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var files []ScenarioFile
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &files); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	} else {
		var one ScenarioFile
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		files = []ScenarioFile{one}
	}

	out := make([]domain.Scenario, 0, len(files))
	for i, sf := range files {
		s, err := sf.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("scenario at index %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// ToDomain validates identifiers and converts the file representation.
// When products are omitted they are derived from the quantity keys in sorted order.
func (sf ScenarioFile) ToDomain() (domain.Scenario, error) {
	s := domain.Scenario{
		ID:   strings.TrimSpace(sf.ID),
		Name: strings.TrimSpace(sf.Name),
	}

	seenProducts := map[string]struct{}{}
	for i, p := range sf.Products {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return domain.Scenario{}, fmt.Errorf("product at index %d: id cannot be empty", i)
		}
		if _, ok := seenProducts[id]; ok {
			return domain.Scenario{}, fmt.Errorf("duplicate product id %q", id)
		}
		seenProducts[id] = struct{}{}
		s.Products = append(s.Products, domain.Product{ID: id, Name: p.Name})
	}

	seen := map[string]struct{}{}
	for i, c := range sf.Customers {
		id, loc, has, err := siteBasics("customer", i, c, seen)
		if err != nil {
			return domain.Scenario{}, err
		}
		s.Customers = append(s.Customers, domain.Customer{
			ID:          id,
			Name:        c.Name,
			Address:     c.Address,
			Location:    loc,
			HasLocation: has,
			Demand:      nonNil(c.Demand),
		})
	}

	seen = map[string]struct{}{}
	for i, f := range sf.Facilities {
		id, loc, has, err := siteBasics("facility", i, f, seen)
		if err != nil {
			return domain.Scenario{}, err
		}
		s.Facilities = append(s.Facilities, domain.Facility{
			ID:          id,
			Name:        f.Name,
			Address:     f.Address,
			Location:    loc,
			HasLocation: has,
			Capacity:    nonNil(f.Capacity),
		})
	}

	if len(s.Products) == 0 {
		s.Products = deriveProducts(s)
	}

	return s, nil
}

func siteBasics(kind string, i int, sf SiteFile, seen map[string]struct{}) (string, domain.Coordinates, bool, error) {
	id := strings.TrimSpace(sf.ID)
	if id == "" {
		return "", domain.Coordinates{}, false, fmt.Errorf("%s at index %d: id cannot be empty", kind, i)
	}
	if _, ok := seen[id]; ok {
		return "", domain.Coordinates{}, false, fmt.Errorf("duplicate %s id %q", kind, id)
	}
	seen[id] = struct{}{}

	if (sf.Latitude == nil) != (sf.Longitude == nil) {
		return "", domain.Coordinates{}, false, fmt.Errorf("%s %q: latitude and longitude must be given together", kind, id)
	}
	if sf.Latitude == nil {
		return id, domain.Coordinates{}, false, nil
	}
	return id, domain.Coordinates{Lat: *sf.Latitude, Lon: *sf.Longitude}, true, nil
}

func deriveProducts(s domain.Scenario) []domain.Product {
	ids := map[string]struct{}{}
	for _, c := range s.Customers {
		for p := range c.Demand {
			ids[p] = struct{}{}
		}
	}
	for _, f := range s.Facilities {
		for p := range f.Capacity {
			ids[p] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	slices.Sort(sorted)

	out := make([]domain.Product, 0, len(sorted))
	for _, id := range sorted {
		out = append(out, domain.Product{ID: id})
	}
	return out
}

func nonNil(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

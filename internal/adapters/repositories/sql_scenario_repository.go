package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"greenfield-planner/internal/domain"
	"greenfield-planner/internal/platform/obs"
	"greenfield-planner/internal/ports"
)

// Postgres-backed implementation of the ScenarioRepository port.
type SQLScenarioRepository struct{ DB *sql.DB }

func NewSQLScenarioRepository(db *sql.DB) *SQLScenarioRepository {
	return &SQLScenarioRepository{DB: db}
}

// Return all stored scenarios with their site and product counts.
func (s *SQLScenarioRepository) ListScenarios(ctx context.Context) (_ []ports.ScenarioSummary, err error) {
	defer obs.Time(ctx, "scenario.repo.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql scenario repository: DB is nil")
	}

	query := `
	SELECT
		sc.scenario_id,
		sc.name,
		(SELECT COUNT(*) FROM sites s WHERE s.scenario_id = sc.scenario_id AND s.kind = 'customer'),
		(SELECT COUNT(*) FROM sites s WHERE s.scenario_id = sc.scenario_id AND s.kind = 'facility'),
		(SELECT COUNT(*) FROM products p WHERE p.scenario_id = sc.scenario_id)
	FROM scenarios sc
	ORDER BY sc.scenario_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: query scenarios table: %w", err)
	}
	defer rows.Close()

	out := make([]ports.ScenarioSummary, 0, 16)
	for rows.Next() {
		var sum ports.ScenarioSummary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.CustomerCount, &sum.FacilityCount, &sum.ProductCount); err != nil {
			return nil, fmt.Errorf("list scenarios: scan row: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scenarios: row iteration: %w", err)
	}

	return out, nil
}

type siteRow struct {
	Kind    string
	ID      string
	Name    string
	Address string
	Lat     sql.NullFloat64
	Lon     sql.NullFloat64
}

type quantityRow struct {
	Kind      string
	SiteID    string
	ProductID string
	Quantity  float64
}

// Load one scenario. Sites and products come back in their stored sequence so
// that allocation iteration order matches the seeded order.
func (s *SQLScenarioRepository) LoadScenario(ctx context.Context, id string) (_ domain.Scenario, err error) {
	defer obs.Time(ctx, "scenario.repo.Load")(&err)

	if s.DB == nil {
		return domain.Scenario{}, errors.New("sql scenario repository: DB is nil")
	}

	var name string
	err = s.DB.QueryRowContext(ctx, `SELECT name FROM scenarios WHERE scenario_id = $1;`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Scenario{}, fmt.Errorf("load scenario %q: %w", id, ports.ErrScenarioNotFound)
	}
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("load scenario %q: query scenarios table: %w", id, err)
	}

	products, err := s.loadProducts(ctx, id)
	if err != nil {
		return domain.Scenario{}, err
	}
	sites, err := s.loadSites(ctx, id)
	if err != nil {
		return domain.Scenario{}, err
	}
	quantities, err := s.loadQuantities(ctx, id)
	if err != nil {
		return domain.Scenario{}, err
	}

	return assembleScenario(id, name, products, sites, quantities), nil
}

func (s *SQLScenarioRepository) loadProducts(ctx context.Context, id string) ([]domain.Product, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT product_id, name
	FROM products
	WHERE scenario_id = $1
	ORDER BY seq;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load scenario %q: query products table: %w", id, err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("load scenario %q: scan product: %w", id, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load scenario %q: product iteration: %w", id, err)
	}
	return out, nil
}

func (s *SQLScenarioRepository) loadSites(ctx context.Context, id string) ([]siteRow, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT kind, site_id, name, address, lat, lon
	FROM sites
	WHERE scenario_id = $1
	ORDER BY kind, seq;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load scenario %q: query sites table: %w", id, err)
	}
	defer rows.Close()

	var out []siteRow
	for rows.Next() {
		var r siteRow
		if err := rows.Scan(&r.Kind, &r.ID, &r.Name, &r.Address, &r.Lat, &r.Lon); err != nil {
			return nil, fmt.Errorf("load scenario %q: scan site: %w", id, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load scenario %q: site iteration: %w", id, err)
	}
	return out, nil
}

func (s *SQLScenarioRepository) loadQuantities(ctx context.Context, id string) ([]quantityRow, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT kind, site_id, product_id, quantity
	FROM site_quantities
	WHERE scenario_id = $1;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load scenario %q: query site_quantities table: %w", id, err)
	}
	defer rows.Close()

	var out []quantityRow
	for rows.Next() {
		var r quantityRow
		if err := rows.Scan(&r.Kind, &r.SiteID, &r.ProductID, &r.Quantity); err != nil {
			return nil, fmt.Errorf("load scenario %q: scan quantity: %w", id, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load scenario %q: quantity iteration: %w", id, err)
	}
	return out, nil
}

// assembleScenario builds the domain scenario from already ordered rows.
func assembleScenario(
	id, name string,
	products []domain.Product,
	sites []siteRow,
	quantities []quantityRow,
) domain.Scenario {
	byKey := make(map[string]map[string]float64, len(sites))
	for _, q := range quantities {
		key := q.Kind + "|" + q.SiteID
		if byKey[key] == nil {
			byKey[key] = make(map[string]float64)
		}
		byKey[key][q.ProductID] = q.Quantity
	}

	sc := domain.Scenario{ID: id, Name: name, Products: products}
	for _, r := range sites {
		qty := byKey[r.Kind+"|"+r.ID]
		if qty == nil {
			qty = map[string]float64{}
		}

		has := r.Lat.Valid && r.Lon.Valid
		loc := domain.Coordinates{Lat: r.Lat.Float64, Lon: r.Lon.Float64}

		switch r.Kind {
		case kindCustomer:
			sc.Customers = append(sc.Customers, domain.Customer{
				ID: r.ID, Name: r.Name, Address: r.Address, Location: loc, HasLocation: has, Demand: qty,
			})
		case kindFacility:
			sc.Facilities = append(sc.Facilities, domain.Facility{
				ID: r.ID, Name: r.Name, Address: r.Address, Location: loc, HasLocation: has, Capacity: qty,
			})
		}
	}

	return sc
}

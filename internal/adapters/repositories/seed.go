package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"greenfield-planner/internal/adapters/scenariofile"
	"greenfield-planner/internal/domain"
)

const (
	kindCustomer = "customer"
	kindFacility = "facility"
)

// Populate the database with scenarios from a JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	scenarios, err := scenariofile.LoadJSON(jsonPath)
	if err != nil {
		return fmt.Errorf("seed scenarios: %w", err)
	}

	for _, s := range scenarios {
		if err := SaveScenario(ctx, db, s); err != nil {
			return fmt.Errorf("seed scenarios: %w", err)
		}
	}

	return nil
}

// SaveScenario replaces a stored scenario with s in a single transaction.
func SaveScenario(ctx context.Context, db *sql.DB, s domain.Scenario) error {
	if db == nil {
		return errors.New("save scenario: DB is nil")
	}
	if s.ID == "" {
		return errors.New("save scenario: scenario id cannot be empty")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save scenario %q: begin tx: %w", s.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scenarios WHERE scenario_id = $1;`, s.ID); err != nil {
		return fmt.Errorf("save scenario %q: delete previous: %w", s.ID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scenarios (scenario_id, name) VALUES ($1, $2);`,
		s.ID, s.Name,
	); err != nil {
		return fmt.Errorf("save scenario %q: insert scenario: %w", s.ID, err)
	}

	productStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO products (scenario_id, product_id, name, seq)
	VALUES ($1, $2, $3, $4);
	`)
	if err != nil {
		return fmt.Errorf("save scenario %q: prepare products: %w", s.ID, err)
	}
	defer productStmt.Close()

	for i, p := range s.Products {
		if _, err := productStmt.ExecContext(ctx, s.ID, p.ID, p.Name, i); err != nil {
			return fmt.Errorf("save scenario %q: insert product %q: %w", s.ID, p.ID, err)
		}
	}

	siteStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO sites (scenario_id, kind, site_id, name, address, lat, lon, seq)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`)
	if err != nil {
		return fmt.Errorf("save scenario %q: prepare sites: %w", s.ID, err)
	}
	defer siteStmt.Close()

	qtyStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO site_quantities (scenario_id, kind, site_id, product_id, quantity)
	VALUES ($1, $2, $3, $4, $5);
	`)
	if err != nil {
		return fmt.Errorf("save scenario %q: prepare quantities: %w", s.ID, err)
	}
	defer qtyStmt.Close()

	insertSite := func(kind string, seq int, id, name, address string, loc domain.Coordinates, has bool, quantities map[string]float64) error {
		var lat, lon sql.NullFloat64
		if has {
			lat = sql.NullFloat64{Float64: loc.Lat, Valid: true}
			lon = sql.NullFloat64{Float64: loc.Lon, Valid: true}
		}
		if _, err := siteStmt.ExecContext(ctx, s.ID, kind, id, name, address, lat, lon, seq); err != nil {
			return fmt.Errorf("insert %s %q: %w", kind, id, err)
		}
		for product, q := range quantities {
			if _, err := qtyStmt.ExecContext(ctx, s.ID, kind, id, product, q); err != nil {
				return fmt.Errorf("insert %s %q quantity %q: %w", kind, id, product, err)
			}
		}
		return nil
	}

	for i, c := range s.Customers {
		if err := insertSite(kindCustomer, i, c.ID, c.Name, c.Address, c.Location, c.HasLocation, c.Demand); err != nil {
			return fmt.Errorf("save scenario %q: %w", s.ID, err)
		}
	}
	for i, f := range s.Facilities {
		if err := insertSite(kindFacility, i, f.ID, f.Name, f.Address, f.Location, f.HasLocation, f.Capacity); err != nil {
			return fmt.Errorf("save scenario %q: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save scenario %q: commit tx: %w", s.ID, err)
	}

	return nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createScenariosQuery := `
	CREATE TABLE IF NOT EXISTS scenarios (
		scenario_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT ''
	);
	`

	createProductsQuery := `
	CREATE TABLE IF NOT EXISTS products (
		scenario_id TEXT NOT NULL REFERENCES scenarios(scenario_id) ON DELETE CASCADE,
		product_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		seq INTEGER NOT NULL,
		PRIMARY KEY (scenario_id, product_id)
	);
	`

	createSitesQuery := `
	CREATE TABLE IF NOT EXISTS sites (
		scenario_id TEXT NOT NULL REFERENCES scenarios(scenario_id) ON DELETE CASCADE,
		kind TEXT NOT NULL CHECK (kind IN ('customer', 'facility')),
		site_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION,
		seq INTEGER NOT NULL,
		PRIMARY KEY (scenario_id, kind, site_id)
	);
	`

	createSiteQuantitiesQuery := `
	CREATE TABLE IF NOT EXISTS site_quantities (
		scenario_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		site_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		quantity DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (scenario_id, kind, site_id, product_id),
		FOREIGN KEY (scenario_id, kind, site_id)
			REFERENCES sites(scenario_id, kind, site_id) ON DELETE CASCADE
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_sites_scenario_kind_seq
	ON sites(scenario_id, kind, seq);
	`

	statements := []string{
		createScenariosQuery,
		createProductsQuery,
		createSitesQuery,
		createSiteQuantitiesQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"greenfield-planner/internal/adapters/repositories"
	"greenfield-planner/internal/config"
	"greenfield-planner/internal/platform/db"
	"log"
	"strings"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadOrEnv(config.Get("CONFIG_PATH", "config.yaml"))

	seedPath := flag.String("seed", cfg.Seed.Path, "scenario JSON file to load (empty skips seeding)")
	schemaOnly := flag.Bool("schema-only", false, "create tables without seeding")
	flag.Parse()

	if strings.TrimSpace(cfg.Database.URL) == "" {
		return errors.New("DATABASE_URL is required")
	}

	ctx := context.Background()

	sqlDB, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if *schemaOnly {
		*seedPath = ""
	}
	return initAndSeed(ctx, sqlDB, *seedPath)
}

func initAndSeed(ctx context.Context, sqlDB *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, sqlDB); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	if seedPath == "" {
		return nil
	}

	log.Printf("Seeding database from %s...", seedPath)
	if err := repositories.SeedFromJSON(ctx, sqlDB, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Println("Seeding complete.")

	return nil
}

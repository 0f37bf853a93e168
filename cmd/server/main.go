package main

import (
	"context"
	"errors"
	"fmt"
	"greenfield-planner/internal/adapters/cache"
	"greenfield-planner/internal/adapters/geocode"
	"greenfield-planner/internal/adapters/memory"
	"greenfield-planner/internal/adapters/remote"
	"greenfield-planner/internal/adapters/repositories"
	"greenfield-planner/internal/adapters/scenariofile"
	"greenfield-planner/internal/api"
	"greenfield-planner/internal/config"
	"greenfield-planner/internal/domain"
	"greenfield-planner/internal/platform/db"
	"greenfield-planner/internal/ports"
	"greenfield-planner/internal/services"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, ORS, remote solver) behind ports and starts the HTTP server.
func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

// run wires the server and blocks until it stops.
func run(ctx context.Context) error {
	cfg := config.LoadOrEnv(config.Get("CONFIG_PATH", "config.yaml"))

	var (
		repo         ports.ScenarioRepository
		geocodeCache geocode.Cache
		deps         services.PlanDependencies
	)

	if cfg.Database.URL != "" {
		sqlDB, err := db.Open(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		repo = repositories.NewSQLScenarioRepository(sqlDB)
		geocodeCache = cache.NewSQLGeocodeCache(sqlDB)
		log.Printf("scenario store=postgres")
	} else {
		mem, err := loadSeedScenarios(cfg.Seed.Path)
		if err != nil {
			return err
		}
		repo = mem
		log.Printf("scenario store=memory seed=%s", cfg.Seed.Path)
	}
	deps.Repo = repo

	if cfg.ORS.APIKey != "" {
		geocoder, err := geocode.NewORSGeocoder(cfg.ORS.APIKey, cfg.ORS.BaseURL, cfg.ORS.Country, geocodeCache)
		if err != nil {
			return err
		}
		deps.Geocoder = geocoder
	} else {
		log.Println("ORS_API_KEY not set: sites must carry coordinates")
	}

	if cfg.Redis.Addr != "" {
		rdb, err := openRedis(ctx, cfg.Redis)
		if err != nil {
			log.Printf("result cache disabled: %v", err)
		} else {
			defer rdb.Close()
			deps.Cache = cache.NewRedisResultCache(rdb, cfg.Redis.TTL)
		}
	}

	if cfg.Remote.BaseURL != "" {
		client, err := remote.NewGFAClient(cfg.Remote.BaseURL, cfg.Remote.APIKey, cfg.Remote.Timeout)
		if err != nil {
			return err
		}
		deps.Remote = client
	}

	cors := api.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.Server.AllowedOrigins

	router := api.NewRouter(api.RouterConfig{
		Repo: repo,
		Plan: deps,
		Defaults: domain.Settings{
			TransportCostPerKm:   cfg.Planning.TransportCostPerKm,
			FixedCostPerFacility: cfg.Planning.FixedCostPerFacility,
			Algorithm:            domain.AlgorithmGreedyGravityV1,
		},
		CompareLimit: cfg.Planning.CompareLimit,
		CORS:         cors,
	})

	// Write timeout covers cold geocoding and remote solver latency.
	log.Printf("Server listening addr=:%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}

// loadSeedScenarios fills an in-memory repository. A missing seed file yields an empty store.
func loadSeedScenarios(path string) (*memory.ScenarioRepository, error) {
	scenarios, err := scenariofile.LoadJSON(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("seed file not found path=%s (starting with no stored scenarios)", path)
		return memory.NewScenarioRepository(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load seed scenarios: %w", err)
	}
	return memory.NewScenarioRepository(scenarios...), nil
}

func openRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("open redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

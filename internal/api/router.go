package api

import (
	"greenfield-planner/internal/api/handlers"
	"greenfield-planner/internal/domain"
	"greenfield-planner/internal/ports"
	"greenfield-planner/internal/services"
	"net/http"
)

type RouterConfig struct {
	Repo         ports.ScenarioRepository
	Plan         services.PlanDependencies
	Defaults     domain.Settings
	CompareLimit int
	CORS         CORSConfig
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	scenarioHandler := &handlers.ScenarioHandler{Repo: cfg.Repo}
	gfaHandler := &handlers.GFAHandler{
		Deps:         cfg.Plan,
		Defaults:     cfg.Defaults,
		CompareLimit: cfg.CompareLimit,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/scenarios", scenarioHandler.List)
	mux.HandleFunc("/gfa/optimize", gfaHandler.Optimize)
	mux.HandleFunc("/gfa/compare", gfaHandler.Compare)

	return requestIDMiddleware(loggingMiddleware(corsMiddleware(cfg.CORS)(mux)))
}

package handlers

import (
	"greenfield-planner/internal/api/dto"
	"greenfield-planner/internal/ports"
	"log"
	"net/http"
)

// ScenarioHandler exposes read-only scenario listing.
type ScenarioHandler struct {
	Repo ports.ScenarioRepository
}

func (h *ScenarioHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	list, err := h.Repo.ListScenarios(r.Context())
	if err != nil {
		log.Printf("list scenarios failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListScenariosResponse{
		Scenarios: make([]dto.ScenarioSummaryResponse, 0, len(list)),
	}
	for _, s := range list {
		res.Scenarios = append(res.Scenarios, dto.ScenarioSummaryResponse{
			ID:            s.ID,
			Name:          s.Name,
			CustomerCount: s.CustomerCount,
			FacilityCount: s.FacilityCount,
			ProductCount:  s.ProductCount,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

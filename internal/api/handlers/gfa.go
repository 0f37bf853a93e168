package handlers

import (
	"errors"
	"fmt"
	"greenfield-planner/internal/adapters/scenariofile"
	"greenfield-planner/internal/api/dto"
	"greenfield-planner/internal/domain"
	"greenfield-planner/internal/services"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const maxVariants = 20

// GFAHandler serves greenfield allocation runs.
type GFAHandler struct {
	Deps         services.PlanDependencies
	Defaults     domain.Settings
	CompareLimit int
}

// Optimize runs one allocation for a stored or inline scenario.
func (h *GFAHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, err := inlineInput(req.ScenarioID, req.Customers, req.Facilities, req.Products)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	settings, err := mergeSettings(h.Defaults, req.Settings)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	svcReq := services.PlanGreenfieldRequest{
		ScenarioID:   strings.TrimSpace(req.ScenarioID),
		Input:        in,
		Settings:     settings,
		PreferRemote: req.PreferRemote,
	}

	res, source, err := services.PlanGreenfield(r.Context(), svcReq, h.Deps)
	if err != nil {
		writeServiceError(w, r, "plan greenfield", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewOptimizeResponse(uuid.NewString(), string(source), res))
}

// Compare runs the same dataset under several settings or facility subsets.
func (h *GFAHandler) Compare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.CompareRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(req.Variants) == 0 || len(req.Variants) > maxVariants {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("variants must contain between 1 and %d entries", maxVariants))
		return
	}

	in, err := inlineInput(req.ScenarioID, req.Customers, req.Facilities, req.Products)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	base, err := mergeSettings(h.Defaults, req.Settings)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	variants := make([]services.ScenarioVariant, 0, len(req.Variants))
	for i, v := range req.Variants {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			name = fmt.Sprintf("variant-%d", i+1)
		}
		settings, err := mergeSettings(base, v.Settings)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("variant %q: %v", name, err))
			return
		}
		variants = append(variants, services.ScenarioVariant{
			Name:        name,
			Settings:    settings,
			FacilityIDs: v.FacilityIDs,
		})
	}

	resolved, err := services.ResolveInput(r.Context(), services.PlanGreenfieldRequest{
		ScenarioID: strings.TrimSpace(req.ScenarioID),
		Input:      in,
		Settings:   base,
	}, h.Deps)
	if err != nil {
		writeServiceError(w, r, "resolve input", err)
		return
	}

	results, err := services.CompareScenarios(r.Context(), resolved, variants, h.CompareLimit)
	if err != nil {
		writeServiceError(w, r, "compare scenarios", err)
		return
	}

	res := dto.CompareResponse{
		RunID:    uuid.NewString(),
		Variants: make([]dto.VariantResponse, 0, len(results)),
	}
	for _, vr := range results {
		res.Variants = append(res.Variants, dto.VariantResponse{
			Name:          vr.Name,
			KPIs:          dto.NewKPIResponse(vr.Result.KPIs),
			FacilityUsage: dto.NewFacilityUsageResponse(vr.Result.FacilityUsage),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// inlineInput validates an inline dataset. A scenario id and inline sites are mutually exclusive.
func inlineInput(
	scenarioID string,
	customers, facilities []scenariofile.SiteFile,
	products []scenariofile.ProductFile,
) (domain.PlanInput, error) {
	hasInline := len(customers) > 0 || len(facilities) > 0 || len(products) > 0

	if strings.TrimSpace(scenarioID) != "" {
		if hasInline {
			return domain.PlanInput{}, errors.New("scenario_id cannot be combined with inline customers, facilities or products")
		}
		return domain.PlanInput{}, nil
	}
	if len(customers) == 0 || len(facilities) == 0 {
		return domain.PlanInput{}, errors.New("scenario_id or inline customers and facilities are required")
	}

	sc, err := scenariofile.ScenarioFile{
		Customers:  customers,
		Facilities: facilities,
		Products:   products,
	}.ToDomain()
	if err != nil {
		return domain.PlanInput{}, err
	}

	return domain.PlanInput{
		Customers:  sc.Customers,
		Facilities: sc.Facilities,
		Products:   sc.Products,
	}, nil
}

// mergeSettings overlays the fields a request sets on top of base.
func mergeSettings(base domain.Settings, s dto.SettingsRequest) (domain.Settings, error) {
	out := base
	if s.TransportCostPerDistanceUnit != nil {
		if *s.TransportCostPerDistanceUnit < 0 {
			return domain.Settings{}, errors.New("transportCostPerDistanceUnit cannot be negative")
		}
		out.TransportCostPerKm = *s.TransportCostPerDistanceUnit
	}
	if s.FixedCostPerFacility != nil {
		if *s.FixedCostPerFacility < 0 {
			return domain.Settings{}, errors.New("fixedCostPerFacility cannot be negative")
		}
		out.FixedCostPerFacility = *s.FixedCostPerFacility
	}
	if a := strings.TrimSpace(s.Algorithm); a != "" {
		out.Algorithm = a
	}
	return out, nil
}

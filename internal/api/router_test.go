package api

import (
	"encoding/json"
	"greenfield-planner/internal/adapters/memory"
	"greenfield-planner/internal/api/dto"
	"greenfield-planner/internal/domain"
	"greenfield-planner/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 10 km north of the origin.
const tenKmLat = 0.08993216059187306

func testScenario() domain.Scenario {
	return domain.Scenario{
		ID:   "demo",
		Name: "Demo",
		Products: []domain.Product{
			{ID: "P1", Name: "Pallets"},
		},
		Customers: []domain.Customer{
			{ID: "C", Name: "Customer", Location: domain.Coordinates{}, HasLocation: true, Demand: map[string]float64{"P1": 30}},
		},
		Facilities: []domain.Facility{
			{ID: "F", Name: "Facility", Location: domain.Coordinates{Lat: tenKmLat}, HasLocation: true, Capacity: map[string]float64{"P1": 50}},
		},
	}
}

func newTestRouter() http.Handler {
	repo := memory.NewScenarioRepository(testScenario())
	return NewRouter(RouterConfig{
		Repo:         repo,
		Plan:         services.PlanDependencies{Repo: repo},
		Defaults:     domain.Settings{TransportCostPerKm: 1, Algorithm: domain.AlgorithmGreedyGravityV1},
		CompareLimit: 2,
		CORS:         DefaultCORSConfig(),
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()

	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestListScenarios(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodGet, "/scenarios", "")
	require.Equal(t, http.StatusOK, w.Code)

	var res dto.ListScenariosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Scenarios, 1)
	assert.Equal(t, dto.ScenarioSummaryResponse{
		ID: "demo", Name: "Demo", CustomerCount: 1, FacilityCount: 1, ProductCount: 1,
	}, res.Scenarios[0])
}

func TestOptimizeStoredScenario(t *testing.T) {
	body := `{"scenario_id":"demo","settings":{"transportCostPerDistanceUnit":2,"fixedCostPerFacility":100}}`
	w := do(t, newTestRouter(), http.MethodPost, "/gfa/optimize", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res dto.OptimizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	assert.True(t, res.Success)
	assert.Equal(t, "local", res.Source)
	assert.NotEmpty(t, res.RunID)
	require.Len(t, res.Allocation, 1)
	assert.Equal(t, "C", res.Allocation[0].CustomerID)
	assert.Equal(t, "F", res.Allocation[0].FacilityID)
	assert.Equal(t, 30.0, res.Allocation[0].Quantity)
	assert.InDelta(t, 10.0, res.Allocation[0].Distance, 1e-6)
	assert.Equal(t, 600.0, res.KPIs.TransportCost)
	assert.Equal(t, 100.0, res.KPIs.FixedCost)
	assert.Equal(t, 700.0, res.KPIs.TotalCost)
	assert.Equal(t, 1, res.KPIs.FacilitiesUsed)
	assert.InDelta(t, 100.0, res.KPIs.ServiceLevel, 1e-9)
	require.Len(t, res.FacilityUsage, 1)
	assert.Equal(t, []string{"C"}, res.FacilityUsage[0].CustomersServed)
	assert.InDelta(t, 60.0, res.FacilityUsage[0].Utilization[0].Percentage, 1e-9)
}

func TestOptimizeInlineInfeasible(t *testing.T) {
	body := `{
		"customers":[{"id":"C","name":"Customer","latitude":0,"longitude":0,"demand":{"P1":80}}],
		"facilities":[{"id":"F","name":"Facility","latitude":0.08993216059187306,"longitude":0,"capacity":{"P1":50}}],
		"settings":{"transportCostPerDistanceUnit":2,"fixedCostPerFacility":100}
	}`
	w := do(t, newTestRouter(), http.MethodPost, "/gfa/optimize", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res dto.OptimizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	assert.Empty(t, res.Allocation)
	assert.Equal(t, 80.0, res.KPIs.UnmetDemand)
	assert.Equal(t, 0.0, res.KPIs.ServiceLevel)
	assert.Equal(t, 0, res.KPIs.FacilitiesUsed)
}

func TestOptimizeErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"invalid json", http.MethodPost, `{`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, `{"scenario_id":"demo","bogus":1}`, http.StatusBadRequest},
		{"two objects", http.MethodPost, `{"scenario_id":"demo"}{}`, http.StatusBadRequest},
		{"no input", http.MethodPost, `{}`, http.StatusBadRequest},
		{"unknown scenario", http.MethodPost, `{"scenario_id":"nope"}`, http.StatusNotFound},
		{"unsupported algorithm", http.MethodPost, `{"scenario_id":"demo","settings":{"algorithm":"milp-v2"}}`, http.StatusBadRequest},
		{"negative rate", http.MethodPost, `{"scenario_id":"demo","settings":{"transportCostPerDistanceUnit":-1}}`, http.StatusBadRequest},
		{"site without location", http.MethodPost, `{
			"customers":[{"id":"C","name":"C","address":"somewhere","demand":{"P1":1}}],
			"facilities":[{"id":"F","name":"F","latitude":0,"longitude":0,"capacity":{"P1":1}}]
		}`, http.StatusBadRequest},
	}

	h := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, "/gfa/optimize", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestCompare(t *testing.T) {
	body := `{
		"scenario_id":"demo",
		"settings":{"transportCostPerDistanceUnit":2},
		"variants":[
			{"name":"cheap","settings":{"fixedCostPerFacility":10}},
			{"name":"expensive","settings":{"fixedCostPerFacility":1000,"transportCostPerDistanceUnit":3}}
		]
	}`
	w := do(t, newTestRouter(), http.MethodPost, "/gfa/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res dto.CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Variants, 2)

	assert.Equal(t, "cheap", res.Variants[0].Name)
	assert.Equal(t, 610.0, res.Variants[0].KPIs.TotalCost)
	assert.Equal(t, "expensive", res.Variants[1].Name)
	assert.Equal(t, 1900.0, res.Variants[1].KPIs.TotalCost)
}

func TestCompareErrors(t *testing.T) {
	h := newTestRouter()

	w := do(t, h, http.MethodPost, "/gfa/compare", `{"scenario_id":"demo","variants":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/gfa/compare", `{"scenario_id":"demo","variants":[{"name":"x","facility_ids":["NOPE"]}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown facility")
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/gfa/optimize", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSUnknownOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()

	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

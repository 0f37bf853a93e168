package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"greenfield-planner/internal/domain"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okResponse = `{
  "status": "ok",
  "assignments": [
    {"customer_id": "C", "customer_name": "Customer", "facility_id": "F", "facility_name": "Facility",
     "product": "P1", "quantity": 30, "distance_km": 10, "transportation_cost": 600}
  ],
  "summary": {
    "total_cost": 700, "transportation_cost": 600, "fixed_cost": 100, "facilities_opened": 1,
    "total_distance_km": 10, "average_distance_km": 10, "service_level_pct": 100,
    "allocated_demand": 30, "unmet_demand": 0, "total_demand": 30
  },
  "facility_usage": [
    {"facility_id": "F", "facility_name": "Facility", "customers_served": ["C"],
     "utilization": [{"product": "P1", "used": 30, "capacity": 50, "utilization_pct": 60}]}
  ]
}`

func sampleInput() domain.PlanInput {
	return domain.PlanInput{
		Customers: []domain.Customer{
			{ID: "C", Name: "Customer", Location: domain.Coordinates{Lon: 1, Lat: 2}, Demand: map[string]float64{"P1": 30}},
		},
		Facilities: []domain.Facility{
			{ID: "F", Name: "Facility", Location: domain.Coordinates{Lon: 3, Lat: 4}, Capacity: map[string]float64{"P1": 50}},
		},
		Products: []domain.Product{{ID: "P1"}},
		Settings: domain.Settings{TransportCostPerKm: 2, FixedCostPerFacility: 100, Algorithm: domain.AlgorithmGreedyGravityV1},
	}
}

func TestGFAClientOptimize(t *testing.T) {
	var got optimizeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/gfa/optimize", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, okResponse)
	}))
	defer srv.Close()

	c, err := NewGFAClient(srv.URL+"/", "token", time.Second)
	require.NoError(t, err)

	res, err := c.Optimize(context.Background(), sampleInput())
	require.NoError(t, err)

	// Request uses [lon, lat] locations and snake_case settings.
	require.Len(t, got.Customers, 1)
	assert.Equal(t, []float64{1, 2}, got.Customers[0].Location)
	assert.Equal(t, 30.0, got.Customers[0].Quantities["P1"])
	assert.Equal(t, []float64{3, 4}, got.Facilities[0].Location)
	assert.Equal(t, 2.0, got.Settings.TransportCostPerKm)

	assert.True(t, res.Success)
	require.Len(t, res.Allocations, 1)
	assert.Equal(t, 600.0, res.Allocations[0].TransportCost)
	assert.Equal(t, "P1", res.Allocations[0].ProductID)
	assert.Equal(t, 600.0, res.KPIs.TransportCost)
	assert.Equal(t, 1, res.KPIs.FacilitiesUsed)
	assert.Equal(t, 100.0, res.KPIs.ServiceLevel)
	require.Len(t, res.FacilityUsage, 1)
	assert.Equal(t, 60.0, res.FacilityUsage[0].Utilization[0].Percentage)
}

func TestGFAClientSolverFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"failed","error":"infeasible model"}`)
	}))
	defer srv.Close()

	c, err := NewGFAClient(srv.URL, "", time.Second)
	require.NoError(t, err)

	_, err = c.Optimize(context.Background(), sampleInput())
	assert.ErrorContains(t, err, "infeasible model")
}

func TestGFAClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := NewGFAClient(srv.URL, "bad", time.Second)
	require.NoError(t, err)

	_, err = c.Optimize(context.Background(), sampleInput())
	assert.ErrorContains(t, err, "401")
}

func TestNewGFAClientRequiresURL(t *testing.T) {
	_, err := NewGFAClient("  ", "", 0)
	assert.Error(t, err)
}

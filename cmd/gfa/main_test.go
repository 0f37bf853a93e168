package main

import (
	"bytes"
	"context"
	"encoding/json"
	"greenfield-planner/internal/api/dto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioJSON = `{
  "id": "example",
  "name": "Example",
  "products": [{"id": "P1", "name": "Pallets"}],
  "customers": [{"id": "C", "name": "Customer", "latitude": 0, "longitude": 0, "demand": {"P1": 30}}],
  "facilities": [{"id": "F", "name": "Facility", "latitude": 0.08993216059187306, "longitude": 0, "capacity": {"P1": 50}}]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunJSON(t *testing.T) {
	t.Setenv("ORS_API_KEY", "")
	path := writeTemp(t, "scenario.json", scenarioJSON)

	var out bytes.Buffer
	err := run(context.Background(), []string{"-input", path, "-rate", "2", "-fixed", "100", "-format", "json"}, &out)
	require.NoError(t, err)

	var res dto.OptimizeResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "local", res.Source)
	require.Len(t, res.Allocation, 1)
	assert.Equal(t, 600.0, res.KPIs.TransportCost)
	assert.Equal(t, 700.0, res.KPIs.TotalCost)
}

func TestRunTextFromCSV(t *testing.T) {
	t.Setenv("ORS_API_KEY", "")
	dir := t.TempDir()
	customers := filepath.Join(dir, "customers.csv")
	facilities := filepath.Join(dir, "facilities.csv")
	require.NoError(t, os.WriteFile(customers, []byte("id,name,lat,lon,P1\nC,Customer,0,0,80\n"), 0o644))
	require.NoError(t, os.WriteFile(facilities, []byte("id,name,lat,lon,P1\nF,Facility,0.0899,0,50\n"), 0o644))

	var out bytes.Buffer
	err := run(context.Background(), []string{"-customers", customers, "-facilities", facilities}, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Greenfield allocation (local)")
	assert.Contains(t, text, "Service level")
	assert.Contains(t, text, "0.0%")
	assert.Contains(t, text, "0 / 80 / 80")
}

func TestParseFlagsValidation(t *testing.T) {
	var stderr bytes.Buffer

	_, err := parseFlags([]string{}, &stderr)
	assert.Error(t, err)

	_, err = parseFlags([]string{"-input", "a.json", "-customers", "c.csv"}, &stderr)
	assert.Error(t, err)

	_, err = parseFlags([]string{"-input", "a.json", "-format", "xml"}, &stderr)
	assert.Error(t, err)

	_, err = parseFlags([]string{"-input", "a.json", "-rate", "-1"}, &stderr)
	assert.Error(t, err)

	opts, err := parseFlags([]string{"-input", "a.json"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "text", opts.Format)
	assert.Equal(t, 1.0, opts.Rate)
}

func TestLoadScenarioSelection(t *testing.T) {
	path := writeTemp(t, "many.json", "["+scenarioJSON+`,{"id":"other","customers":[],"facilities":[]}]`)

	_, err := loadScenario(options{Input: path})
	assert.ErrorContains(t, err, "select one with -scenario")

	sc, err := loadScenario(options{Input: path, ScenarioID: "example"})
	require.NoError(t, err)
	assert.Equal(t, "Example", sc.Name)

	_, err = loadScenario(options{Input: path, ScenarioID: "missing"})
	assert.Error(t, err)
}

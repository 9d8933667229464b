package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/FleetPack/internal/engine"
	"github.com/piwi3910/FleetPack/internal/export"
	"github.com/piwi3910/FleetPack/internal/model"
	"github.com/piwi3910/FleetPack/internal/project"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig(t *testing.T) Config {
	t.Helper()
	defaults := model.DefaultSettings()
	defaults.Seed = 42
	defaults.Annealing = model.AnnealingSettings{InitialTemperature: 100, CoolingRate: 0.8, StoppingTemperature: 1, IterationsPerTemperature: 20}
	defaults.Genetic = model.GeneticSettings{PopulationSize: 10, MutationRate: 0.2, Generations: 10, MaxConstructionAttempts: 50, Workers: 1}
	return Config{
		Address:     ":0",
		Defaults:    defaults,
		PresetsPath: filepath.Join(t.TempDir(), "presets.json"),
		Limits:      Limits{MaxPackages: 100},
	}
}

func newTestServer(t *testing.T, config Config) *Server {
	t.Helper()
	return NewServer(config, zerolog.Nop())
}

func doJSON(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func samplePackages() []model.Package {
	return []model.Package{
		{ID: 0, X: 3, Y: 4, Weight: 5, Priority: 1},
		{ID: 1, X: 10, Y: 10, Weight: 20, Priority: 2},
		{ID: 2, X: -6, Y: 8, Weight: 2, Priority: 3},
		{ID: 3, X: 1, Y: -1, Weight: 4, Priority: 5},
	}
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, newTestServer(t, testConfig(t)), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestOptimize_ConcreteScenario(t *testing.T) {
	server := newTestServer(t, testConfig(t))
	body := map[string]interface{}{
		"packages": []model.Package{
			{ID: 0, X: 3, Y: 4, Weight: 5, Priority: 1},
			{ID: 1, X: 10, Y: 10, Weight: 20, Priority: 2},
		},
		"vehicle_count": 1,
		"capacity":      10,
	}

	for _, alg := range []string{"annealing", "genetic"} {
		t.Run(alg, func(t *testing.T) {
			body["algorithm"] = alg
			rec := doJSON(t, server, http.MethodPost, "/v1/optimize", body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var report export.Report
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
			assert.Equal(t, model.Algorithm(alg), report.Algorithm)
			assert.Equal(t, int64(42), report.Seed)
			assert.InDelta(t, 10.0, report.TotalDistance, 1e-9)
			assert.Equal(t, []int{1}, report.Unassigned)
			assert.True(t, report.Valid)
		})
	}
}

func TestOptimize_ExplicitVehiclesAndOverrides(t *testing.T) {
	server := newTestServer(t, testConfig(t))
	body := map[string]interface{}{
		"packages":  samplePackages(),
		"vehicles":  []model.Vehicle{model.NewVehicle(7, 12), model.NewVehicle(9, 25)},
		"seed":      5,
		"annealing": map[string]interface{}{"cooling_rate": 0.5},
	}

	rec := doJSON(t, server, http.MethodPost, "/v1/optimize", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report export.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, int64(5), report.Seed)
	require.Len(t, report.Vehicles, 2)
	assert.Equal(t, 7, report.Vehicles[0].ID)
	assert.Equal(t, 9, report.Vehicles[1].ID)
	assert.Equal(t, len(samplePackages()), report.AssignedCount+len(report.Unassigned))
	for _, v := range report.Vehicles {
		assert.LessOrEqual(t, v.Load, v.Capacity)
	}
}

func TestOptimize_Deterministic(t *testing.T) {
	server := newTestServer(t, testConfig(t))
	body := map[string]interface{}{"packages": samplePackages(), "vehicle_count": 2, "capacity": 15, "algorithm": "ga"}

	first := doJSON(t, server, http.MethodPost, "/v1/optimize", body)
	second := doJSON(t, server, http.MethodPost, "/v1/optimize", body)
	require.Equal(t, http.StatusOK, first.Code)

	var a, b export.Report
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.Equal(t, a.TotalDistance, b.TotalDistance)
	assert.Equal(t, a.Vehicles, b.Vehicles)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestOptimize_Preset(t *testing.T) {
	config := testConfig(t)
	custom := model.Preset{
		Name:      "Tiny",
		Annealing: model.AnnealingSettings{InitialTemperature: 10, CoolingRate: 0.5, StoppingTemperature: 1, IterationsPerTemperature: 5},
		Genetic:   model.GeneticSettings{PopulationSize: 4, MutationRate: 0.1, Generations: 2, MaxConstructionAttempts: 10, Workers: 1},
	}
	require.NoError(t, project.SaveCustomPresets(config.PresetsPath, []model.Preset{custom}))
	server := newTestServer(t, config)

	body := map[string]interface{}{"packages": samplePackages(), "vehicle_count": 2, "capacity": 15, "preset": "tiny"}
	rec := doJSON(t, server, http.MethodPost, "/v1/optimize", body)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body["preset"] = "Warp"
	rec = doJSON(t, server, http.MethodPost, "/v1/optimize", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown preset")
}

func TestOptimize_BadRequests(t *testing.T) {
	server := newTestServer(t, testConfig(t))

	tests := []struct {
		name string
		body interface{}
		want string
	}{
		{"missing packages", map[string]interface{}{"vehicle_count": 1, "capacity": 5}, "Packages"},
		{"bad algorithm", map[string]interface{}{"packages": samplePackages(), "algorithm": "tabu"}, "unknown algorithm"},
		{"bad cooling", map[string]interface{}{"packages": samplePackages(), "annealing": map[string]float64{"cooling_rate": 1.5}}, "cooling rate"},
		{"bad priority", map[string]interface{}{"packages": []model.Package{{ID: 1, X: 1, Y: 1, Weight: 1, Priority: 9}}, "vehicle_count": 1, "capacity": 5}, "priority"},
		{"duplicate ids", map[string]interface{}{"packages": []model.Package{{ID: 1, Weight: 1, Priority: 1}, {ID: 1, Weight: 1, Priority: 1}}, "vehicle_count": 1, "capacity": 5}, "duplicate package id"},
		{"no capacity", map[string]interface{}{"packages": samplePackages(), "vehicle_count": 2}, "capacity"},
		{"malformed override", map[string]interface{}{"packages": samplePackages(), "genetic": "fast"}, "genetic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, server, http.MethodPost, "/v1/optimize", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, tt.want)
		})
	}
}

func TestOptimize_TooManyPackages(t *testing.T) {
	config := testConfig(t)
	config.Limits.MaxPackages = 2
	rec := doJSON(t, newTestServer(t, config), http.MethodPost, "/v1/optimize",
		map[string]interface{}{"packages": samplePackages(), "vehicle_count": 1, "capacity": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimize_RequestLimits(t *testing.T) {
	config := testConfig(t)
	config.Limits = Limits{
		MaxPackages:            100,
		MaxVehicles:            10,
		MaxPopulation:          50,
		MaxGenerations:         100,
		MaxWorkers:             4,
		MaxAnnealingIterations: 10000,
	}
	server := newTestServer(t, config)

	tests := []struct {
		name  string
		extra map[string]interface{}
		want  string
	}{
		{"vehicle count", map[string]interface{}{"vehicle_count": 2000000000, "capacity": 5}, "vehicles"},
		{"vehicle list", map[string]interface{}{"vehicles": model.UniformFleet(11, 5)}, "vehicles"},
		{"workers", map[string]interface{}{"algorithm": "ga", "genetic": map[string]int{"workers": 100000000}}, "workers"},
		{"population", map[string]interface{}{"genetic": map[string]int{"population_size": 51}}, "population size"},
		{"generations", map[string]interface{}{"genetic": map[string]int{"generations": 101}}, "generations"},
		{"construction attempts", map[string]interface{}{"genetic": map[string]int{"max_construction_attempts": 101}}, "construction attempts"},
		{"iterations", map[string]interface{}{"annealing": map[string]int{"iterations_per_temperature": 100000}}, "annealing schedule"},
		{"slow cooling", map[string]interface{}{"annealing": map[string]float64{"initial_temperature": 1e300, "cooling_rate": 0.999999}}, "annealing schedule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]interface{}{"packages": samplePackages()}
			for k, v := range tt.extra {
				body[k] = v
			}
			rec := doJSON(t, server, http.MethodPost, "/v1/optimize", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}

	rec := doJSON(t, server, http.MethodPost, "/v1/optimize",
		map[string]interface{}{"packages": samplePackages(), "vehicle_count": 10, "capacity": 15, "genetic": map[string]int{"workers": 4}})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCompare_ScenarioLimits(t *testing.T) {
	config := testConfig(t)
	// the doubled-population scenario breaks a limit the request itself meets
	config.Limits.MaxPopulation = 15
	rec := doJSON(t, newTestServer(t, config), http.MethodPost, "/v1/compare",
		map[string]interface{}{"packages": samplePackages(), "vehicle_count": 2, "capacity": 15})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "population size 20")
}

func TestOptimize_BodyTooLarge(t *testing.T) {
	config := testConfig(t)
	config.Limits.MaxBodyBytes = 64
	rec := doJSON(t, newTestServer(t, config), http.MethodPost, "/v1/optimize",
		map[string]interface{}{"packages": samplePackages(), "vehicle_count": 2, "capacity": 15})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
}

func TestAnnealingIterations(t *testing.T) {
	a := model.AnnealingSettings{InitialTemperature: 100, CoolingRate: 0.8, StoppingTemperature: 1, IterationsPerTemperature: 40}
	// 100 * 0.8^k > 1 holds for k = 0..20
	assert.Equal(t, 21.0*40, annealingIterations(a))

	a.InitialTemperature = math.Inf(1)
	assert.True(t, math.IsInf(annealingIterations(a), 1))

	a.CoolingRate = 1
	assert.Zero(t, annealingIterations(a))
}

func TestOptimize_NoVehiclesLeavesAllUnassigned(t *testing.T) {
	rec := doJSON(t, newTestServer(t, testConfig(t)), http.MethodPost, "/v1/optimize",
		map[string]interface{}{"packages": samplePackages()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report export.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, []int{0, 1, 2, 3}, report.Unassigned)
	assert.Zero(t, report.TotalDistance)
}

func TestCompare(t *testing.T) {
	server := newTestServer(t, testConfig(t))
	body := map[string]interface{}{"packages": samplePackages(), "vehicle_count": 2, "capacity": 15}

	rec := doJSON(t, server, http.MethodPost, "/v1/compare", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp CompareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Scenarios, 4)
	assert.Equal(t, "Current Settings", resp.Scenarios[0].Name)
	assert.Equal(t, model.AlgorithmGenetic, resp.Scenarios[1].Algorithm)

	bestCount := 0
	for _, s := range resp.Scenarios {
		if s.Best {
			bestCount++
		}
	}
	assert.Equal(t, 1, bestCount)
}

func TestBetterScenario(t *testing.T) {
	more := engine.ComparisonResult{AssignedCount: 3, TotalDistance: 50}
	fewer := engine.ComparisonResult{AssignedCount: 2, TotalDistance: 10}
	shorter := engine.ComparisonResult{AssignedCount: 3, TotalDistance: 40}

	assert.True(t, betterScenario(more, fewer))
	assert.True(t, betterScenario(shorter, more))
	assert.False(t, betterScenario(more, more))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("x: %w", model.ErrInvalidInput)))
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("x: %w", model.ErrInvalidSettings)))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(fmt.Errorf("optimize genetic: %w", &engine.ConstructionExhaustedError{Attempts: 3})))
	assert.Equal(t, http.StatusBadRequest, statusFor(limitError("workers", 9, 4)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(fmt.Errorf("boom")))
	assert.Equal(t, "exhausted", outcomeFor(engine.ErrConstructionExhausted))
}

func TestRateLimit(t *testing.T) {
	config := testConfig(t)
	config.RateLimit = 0.001
	config.RateBurst = 2
	server := newTestServer(t, config)
	body := map[string]interface{}{"packages": []model.Package{}, "vehicle_count": 1, "capacity": 5}

	for i := 0; i < 2; i++ {
		rec := doJSON(t, server, http.MethodPost, "/v1/optimize", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec := doJSON(t, server, http.MethodPost, "/v1/optimize", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Health checks are never limited.
	rec = doJSON(t, server, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t, testConfig(t))
	doJSON(t, server, http.MethodPost, "/v1/optimize",
		map[string]interface{}{"packages": samplePackages(), "vehicle_count": 2, "capacity": 15})

	rec := doJSON(t, server, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, "fleetpack_optimization_runs_total")
	assert.Contains(t, out, `http_requests_total{method="POST",path="/v1/optimize",status="200"}`)
}

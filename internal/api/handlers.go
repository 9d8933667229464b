package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/FleetPack/internal/engine"
	"github.com/piwi3910/FleetPack/internal/export"
	"github.com/piwi3910/FleetPack/internal/metrics"
	"github.com/piwi3910/FleetPack/internal/model"
	"github.com/piwi3910/FleetPack/internal/project"
)

// OptimizeRequest describes one problem and how to solve it. The fleet is
// either listed in Vehicles or given as VehicleCount vehicles of Capacity.
// Annealing and Genetic override individual hyperparameters on top of the
// server defaults and the optional preset.
type OptimizeRequest struct {
	Packages     []model.Package `json:"packages" binding:"required"`
	Vehicles     []model.Vehicle `json:"vehicles"`
	VehicleCount int             `json:"vehicle_count" binding:"gte=0"`
	Capacity     float64         `json:"capacity" binding:"gte=0"`
	Algorithm    string          `json:"algorithm"`
	Seed         *int64          `json:"seed"`
	Preset       string          `json:"preset"`
	Annealing    json.RawMessage `json:"annealing"`
	Genetic      json.RawMessage `json:"genetic"`
}

// ScenarioSummary is one row of a comparison.
type ScenarioSummary struct {
	Name            string          `json:"name"`
	Algorithm       model.Algorithm `json:"algorithm"`
	Seed            int64           `json:"seed"`
	TotalDistance   float64         `json:"total_distance"`
	AssignedCount   int             `json:"assigned_count"`
	UnassignedCount int             `json:"unassigned_count"`
	VehiclesUsed    int             `json:"vehicles_used"`
	ElapsedSeconds  float64         `json:"elapsed_seconds"`
	Best            bool            `json:"best"`
}

// CompareResponse lists scenario results in scenario order.
type CompareResponse struct {
	Scenarios []ScenarioSummary `json:"scenarios"`
}

// settingsFor layers the request over the server defaults: preset first,
// then algorithm, seed and hyperparameter overrides.
func (server *Server) settingsFor(req *OptimizeRequest) (model.Settings, error) {
	s := server.config.Defaults

	if req.Preset != "" {
		p, err := project.GetPreset(server.config.PresetsPath, req.Preset)
		if err != nil {
			return s, err
		}
		p.Apply(&s)
	}
	if req.Algorithm != "" {
		alg, err := model.ParseAlgorithm(req.Algorithm)
		if err != nil {
			return s, err
		}
		s.Algorithm = alg
	}
	if req.Seed != nil {
		s.Seed = *req.Seed
	}
	if len(req.Annealing) > 0 {
		if err := json.Unmarshal(req.Annealing, &s.Annealing); err != nil {
			return s, fmt.Errorf("%w: annealing: %v", model.ErrInvalidSettings, err)
		}
	}
	if len(req.Genetic) > 0 {
		if err := json.Unmarshal(req.Genetic, &s.Genetic); err != nil {
			return s, fmt.Errorf("%w: genetic: %v", model.ErrInvalidSettings, err)
		}
	}
	return s, s.Validate()
}

func (server *Server) fleetFor(req *OptimizeRequest) ([]model.Vehicle, error) {
	vehicles := req.VehicleCount
	if len(req.Vehicles) > 0 {
		vehicles = len(req.Vehicles)
	}
	if err := server.config.Limits.checkProblem(len(req.Packages), vehicles); err != nil {
		return nil, err
	}
	if len(req.Vehicles) > 0 {
		return req.Vehicles, nil
	}
	if req.VehicleCount > 0 {
		if req.Capacity <= 0 {
			return nil, fmt.Errorf("%w: capacity must be positive", model.ErrInvalidInput)
		}
		return model.UniformFleet(req.VehicleCount, req.Capacity), nil
	}
	return []model.Vehicle{}, nil
}

func (server *Server) prepare(ctx *gin.Context) (*OptimizeRequest, model.Settings, []model.Vehicle, bool) {
	var req OptimizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		ctx.JSON(status, errorResponse(err))
		return nil, model.Settings{}, nil, false
	}
	settings, err := server.settingsFor(&req)
	if err == nil {
		err = server.config.Limits.checkSettings(settings)
	}
	if err != nil {
		ctx.JSON(statusFor(err), errorResponse(err))
		return nil, settings, nil, false
	}
	fleet, err := server.fleetFor(&req)
	if err != nil {
		ctx.JSON(statusFor(err), errorResponse(err))
		return nil, settings, nil, false
	}
	return &req, settings, fleet, true
}

func (server *Server) optimize(ctx *gin.Context) {
	req, settings, fleet, ok := server.prepare(ctx)
	if !ok {
		return
	}

	res, err := engine.New(settings, engine.WithLogger(server.log)).Optimize(ctx.Request.Context(), req.Packages, fleet)
	if err != nil {
		server.fail(ctx, settings.Algorithm, err)
		return
	}
	metrics.ObserveRun(string(res.Algorithm), res.Elapsed, res.TotalDistance(), len(res.Unassigned))

	ctx.JSON(http.StatusOK, export.BuildReport(res))
}

func (server *Server) compare(ctx *gin.Context) {
	req, settings, fleet, ok := server.prepare(ctx)
	if !ok {
		return
	}

	scenarios := engine.BuildDefaultScenarios(settings)
	for _, sc := range scenarios {
		if err := server.config.Limits.checkSettings(sc.Settings); err != nil {
			ctx.JSON(statusFor(err), errorResponse(fmt.Errorf("scenario %q: %w", sc.Name, err)))
			return
		}
	}

	results, err := engine.CompareScenarios(ctx.Request.Context(), scenarios, req.Packages, fleet, engine.WithLogger(server.log))
	if err != nil {
		server.fail(ctx, settings.Algorithm, err)
		return
	}

	resp := CompareResponse{Scenarios: make([]ScenarioSummary, 0, len(results))}
	best := -1
	for i, r := range results {
		metrics.ObserveRun(string(r.Result.Algorithm), r.Result.Elapsed, r.TotalDistance, r.UnassignedCount)
		resp.Scenarios = append(resp.Scenarios, ScenarioSummary{
			Name:            r.Scenario.Name,
			Algorithm:       r.Result.Algorithm,
			Seed:            r.Result.Seed,
			TotalDistance:   r.TotalDistance,
			AssignedCount:   r.AssignedCount,
			UnassignedCount: r.UnassignedCount,
			VehiclesUsed:    r.VehiclesUsed,
			ElapsedSeconds:  r.Result.Elapsed.Seconds(),
		})
		if best < 0 || betterScenario(r, results[best]) {
			best = i
		}
	}
	if best >= 0 {
		resp.Scenarios[best].Best = true
	}

	ctx.JSON(http.StatusOK, resp)
}

// betterScenario prefers more assigned packages, then shorter total distance.
func betterScenario(a, b engine.ComparisonResult) bool {
	if a.AssignedCount != b.AssignedCount {
		return a.AssignedCount > b.AssignedCount
	}
	return a.TotalDistance < b.TotalDistance
}

func (server *Server) fail(ctx *gin.Context, algorithm model.Algorithm, err error) {
	metrics.ObserveFailure(string(algorithm), outcomeFor(err))
	_ = ctx.Error(err)
	ctx.JSON(statusFor(err), errorResponse(err))
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrInvalidSettings),
		errors.Is(err, project.ErrUnknownPreset),
		errors.Is(err, errLimitExceeded):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrConstructionExhausted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func outcomeFor(err error) string {
	switch statusFor(err) {
	case http.StatusBadRequest:
		return "invalid"
	case http.StatusUnprocessableEntity:
		return "exhausted"
	default:
		return "error"
	}
}

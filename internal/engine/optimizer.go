package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/piwi3910/FleetPack/internal/model"
	"github.com/rs/zerolog"
)

// Result is the outcome of one optimization run.
type Result struct {
	RunID      string          `json:"run_id"`
	Algorithm  model.Algorithm `json:"algorithm"`
	Seed       int64           `json:"seed"`
	Solution   *model.Solution `json:"solution"`
	Unassigned []int           `json:"unassigned"`
	History    []float64       `json:"history"`
	Stats      Stats           `json:"stats"`
	Elapsed    time.Duration   `json:"elapsed"`
}

// TotalDistance returns the best solution's distance, or 0 without a solution.
func (r Result) TotalDistance() float64 {
	if r.Solution == nil {
		return 0
	}
	return r.Solution.TotalDistance()
}

// Optimizer runs the configured metaheuristic.
type Optimizer struct {
	Settings model.Settings
	log      zerolog.Logger
	now      func() time.Time
}

// Option customizes an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger used for run progress. The default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Optimizer) { o.log = l }
}

// WithClock replaces time.Now, which also seeds runs configured with seed 0.
func WithClock(now func() time.Time) Option {
	return func(o *Optimizer) { o.now = now }
}

// New creates an Optimizer for settings. Settings are validated when
// Optimize runs, not here.
func New(settings model.Settings, opts ...Option) *Optimizer {
	o := &Optimizer{Settings: settings, log: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize assigns pkgs to the fleet. Packages are referenced by the returned
// solution, so the caller must not modify pkgs while holding the result.
func (o *Optimizer) Optimize(ctx context.Context, pkgs []model.Package, fleet []model.Vehicle) (Result, error) {
	if err := o.Settings.Validate(); err != nil {
		return Result{}, fmt.Errorf("optimize: %w", err)
	}
	if err := model.ValidateInput(pkgs, fleet); err != nil {
		return Result{}, fmt.Errorf("optimize: %w", err)
	}

	seed := o.Settings.Seed
	if seed == 0 {
		seed = o.now().UnixNano()
	}
	res := Result{
		RunID:     uuid.New().String(),
		Algorithm: o.Settings.Algorithm,
		Seed:      seed,
	}
	log := o.log.With().
		Str("run_id", res.RunID).
		Str("algorithm", string(res.Algorithm)).
		Int64("seed", seed).
		Logger()

	rng := rand.New(rand.NewSource(seed))
	refs := PackageRefs(pkgs)
	start := o.now()

	var run Run
	var err error
	switch o.Settings.Algorithm {
	case model.AlgorithmGenetic:
		run, err = Evolve(ctx, rng, seed, refs, fleet, o.Settings.Genetic, log)
	default:
		run, err = Anneal(ctx, rng, refs, fleet, o.Settings.Annealing, log)
	}
	res.Elapsed = o.now().Sub(start)
	res.Stats = run.Stats
	if err != nil {
		log.Error().Err(err).Msg("optimization failed")
		return res, fmt.Errorf("optimize %s: %w", res.Algorithm, err)
	}

	res.Solution = run.Solution
	res.History = run.History
	res.Unassigned = run.Solution.Unassigned(pkgs)

	log.Info().
		Float64("distance", res.TotalDistance()).
		Int("assigned", run.Solution.AssignedCount()).
		Int("unassigned", len(res.Unassigned)).
		Dur("elapsed", res.Elapsed).
		Msg("optimization finished")
	if len(res.Unassigned) > 0 {
		log.Warn().Ints("package_ids", res.Unassigned).Msg("packages left unassigned")
	}
	return res, nil
}

package engine

import (
	"context"
	"math"
	"math/rand"

	"github.com/piwi3910/FleetPack/internal/model"
	"github.com/rs/zerolog"
)

// Stats counts what a single engine run did.
type Stats struct {
	Iterations           int `json:"iterations"`
	TemperatureSteps     int `json:"temperature_steps,omitempty"`
	Improvements         int `json:"improvements"`
	AcceptedWorse        int `json:"accepted_worse,omitempty"`
	Rejected             int `json:"rejected,omitempty"`
	InvalidSkipped       int `json:"invalid_skipped,omitempty"`
	Generations          int `json:"generations,omitempty"`
	RejectedOffspring    int `json:"rejected_offspring,omitempty"`
	ConstructionAttempts int `json:"construction_attempts,omitempty"`
}

// Run is the raw outcome of one engine invocation.
type Run struct {
	Solution *model.Solution
	// History holds the best distance seen after each temperature step
	// (annealing) or generation (genetic). It never increases.
	History []float64
	Stats   Stats
}

// ctxCheckInterval is how many inner iterations run between cancellation checks.
const ctxCheckInterval = 256

// annealer implements simulated annealing over package-to-vehicle assignments.
type annealer struct {
	cfg   model.AnnealingSettings
	pkgs  []*model.Package
	fleet []model.Vehicle
	rng   *rand.Rand
	log   zerolog.Logger
}

// Anneal runs simulated annealing from one greedy starting solution and
// returns the best solution found.
func Anneal(ctx context.Context, rng *rand.Rand, pkgs []*model.Package, fleet []model.Vehicle, cfg model.AnnealingSettings, log zerolog.Logger) (Run, error) {
	a := &annealer{cfg: cfg, pkgs: pkgs, fleet: fleet, rng: rng, log: log}
	return a.run(ctx)
}

func (a *annealer) run(ctx context.Context) (Run, error) {
	current := Construct(a.rng, a.pkgs, a.fleet)
	currentDist := current.TotalDistance()
	best := current.Clone()
	bestDist := currentDist

	a.log.Debug().
		Float64("initial_distance", currentDist).
		Int("assigned", current.AssignedCount()).
		Msg("annealing started")

	var stats Stats
	var history []float64
	temp := a.cfg.InitialTemperature

	for temp > a.cfg.StoppingTemperature {
		if err := ctx.Err(); err != nil {
			return Run{}, err
		}

		for i := 0; i < a.cfg.IterationsPerTemperature; i++ {
			if i > 0 && i%ctxCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return Run{}, err
				}
			}
			stats.Iterations++
			next := a.neighbor(current)
			if !next.IsValid() {
				stats.InvalidSkipped++
				continue
			}

			nextDist := next.TotalDistance()
			switch {
			case nextDist < currentDist:
				stats.Improvements++
			case a.rng.Float64() < math.Exp(-(nextDist-currentDist)/temp):
				stats.AcceptedWorse++
			default:
				stats.Rejected++
				continue
			}

			current, currentDist = next, nextDist
			if currentDist < bestDist {
				best, bestDist = current.Clone(), currentDist
			}
		}

		history = append(history, bestDist)
		stats.TemperatureSteps++
		temp *= a.cfg.CoolingRate
	}

	a.log.Debug().
		Float64("best_distance", bestDist).
		Int("iterations", stats.Iterations).
		Int("accepted_worse", stats.AcceptedWorse).
		Msg("annealing finished")

	return Run{Solution: best, History: history, Stats: stats}, nil
}

// neighbor relocates one uniformly chosen package to a random other vehicle
// with room. The input is never modified.
func (a *annealer) neighbor(s *model.Solution) *model.Solution {
	next := s.Clone()
	total := next.AssignedCount()
	if total == 0 {
		return next
	}
	vi, slot := locate(next, a.rng.Intn(total))
	relocate(a.rng, next, vi, slot)
	return next
}

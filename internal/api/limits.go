package api

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/piwi3910/FleetPack/internal/model"
)

// Limits bounds the work a single request may ask for. A zero field means
// no limit.
type Limits struct {
	MaxPackages   int
	MaxVehicles   int
	MaxPopulation int
	// MaxGenerations also bounds construction attempts per individual.
	MaxGenerations int
	MaxWorkers     int
	// MaxAnnealingIterations caps temperature steps times iterations per step.
	MaxAnnealingIterations int
	MaxBodyBytes           int64
}

// DefaultLimits returns the limits used by the serve command.
func DefaultLimits() Limits {
	return Limits{
		MaxPackages:            5000,
		MaxVehicles:            1000,
		MaxPopulation:          1000,
		MaxGenerations:         20000,
		MaxWorkers:             max(16, runtime.GOMAXPROCS(0)),
		MaxAnnealingIterations: 10_000_000,
		MaxBodyBytes:           8 << 20,
	}
}

var errLimitExceeded = errors.New("request exceeds server limits")

func exceeds(limit, v int) bool {
	return limit > 0 && v > limit
}

func limitError(what string, v, limit int) error {
	return fmt.Errorf("%w: %s %d exceeds the limit of %d", errLimitExceeded, what, v, limit)
}

// checkProblem bounds the problem size. vehicles is either the listed fleet
// or the requested vehicle count, checked before any fleet is allocated.
func (l Limits) checkProblem(packages, vehicles int) error {
	if exceeds(l.MaxPackages, packages) {
		return limitError("packages", packages, l.MaxPackages)
	}
	if exceeds(l.MaxVehicles, vehicles) {
		return limitError("vehicles", vehicles, l.MaxVehicles)
	}
	return nil
}

// checkSettings bounds both parameter sets, since a comparison runs both
// algorithms whatever the request selects.
func (l Limits) checkSettings(s model.Settings) error {
	g := s.Genetic
	switch {
	case exceeds(l.MaxPopulation, g.PopulationSize):
		return limitError("population size", g.PopulationSize, l.MaxPopulation)
	case exceeds(l.MaxGenerations, g.Generations):
		return limitError("generations", g.Generations, l.MaxGenerations)
	case exceeds(l.MaxGenerations, g.MaxConstructionAttempts):
		return limitError("construction attempts", g.MaxConstructionAttempts, l.MaxGenerations)
	case exceeds(l.MaxWorkers, g.Workers):
		return limitError("workers", g.Workers, l.MaxWorkers)
	}

	if l.MaxAnnealingIterations > 0 {
		if n := annealingIterations(s.Annealing); n > float64(l.MaxAnnealingIterations) {
			return fmt.Errorf("%w: annealing schedule needs %.0f iterations, the limit is %d",
				errLimitExceeded, n, l.MaxAnnealingIterations)
		}
	}
	return nil
}

// annealingIterations is the number of inner iterations the schedule runs.
// Schedules that Validate rejects count as zero; an infinite initial
// temperature counts as infinite.
func annealingIterations(a model.AnnealingSettings) float64 {
	if a.StoppingTemperature <= 0 || a.CoolingRate <= 0 || a.CoolingRate >= 1 ||
		a.InitialTemperature <= a.StoppingTemperature || a.IterationsPerTemperature < 1 {
		return 0
	}
	steps := math.Ceil(math.Log(a.StoppingTemperature/a.InitialTemperature) / math.Log(a.CoolingRate))
	return steps * float64(a.IterationsPerTemperature)
}

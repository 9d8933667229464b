package engine

import (
	"math/rand"
	"testing"

	"github.com/piwi3910/FleetPack/internal/model"
)

// makeTestPackages returns n reproducible packages scattered over a 100x100 grid.
func makeTestPackages(n int) []model.Package {
	rng := rand.New(rand.NewSource(7))
	pkgs := make([]model.Package, n)
	for i := range pkgs {
		pkgs[i] = model.Package{
			ID:       i,
			X:        rng.Float64() * 100,
			Y:        rng.Float64() * 100,
			Weight:   1 + rng.Float64()*9,
			Priority: 1 + rng.Intn(5),
		}
	}
	return pkgs
}

func makeTestFleet() []model.Vehicle {
	return model.UniformFleet(4, 30)
}

func makeFastSettings(algo model.Algorithm) model.Settings {
	s := model.DefaultSettings()
	s.Algorithm = algo
	s.Seed = 42
	s.Annealing = model.AnnealingSettings{
		InitialTemperature:       100,
		CoolingRate:              0.8,
		StoppingTemperature:      1,
		IterationsPerTemperature: 40,
	}
	s.Genetic.PopulationSize = 16
	s.Genetic.Generations = 25
	s.Genetic.MutationRate = 0.2
	return s
}

// assertFeasible checks the capacity and no-duplication invariants.
func assertFeasible(t *testing.T, s *model.Solution) {
	t.Helper()
	if !s.IsValid() {
		t.Errorf("solution exceeds a vehicle capacity")
	}
	for _, v := range s.Vehicles {
		if v.CurrentLoad() > v.Capacity {
			t.Errorf("vehicle %d load %.2f exceeds capacity %.2f", v.ID, v.CurrentLoad(), v.Capacity)
		}
	}
	if dups := s.Duplicates(); len(dups) > 0 {
		t.Errorf("duplicate package ids in solution: %v", dups)
	}
}

// routeIDs flattens a solution to per-vehicle package id sequences.
func routeIDs(s *model.Solution) [][]int {
	out := make([][]int, len(s.Vehicles))
	for i, v := range s.Vehicles {
		out[i] = []int{}
		for _, p := range v.Packages {
			out[i] = append(out[i], p.ID)
		}
	}
	return out
}

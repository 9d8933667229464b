package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/FleetPack/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string         `json:"name"`
	Settings model.Settings `json:"settings"`
}

// ComparisonResult holds the optimization result and computed statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario        ComparisonScenario `json:"scenario"`
	Result          Result             `json:"result"`
	TotalDistance   float64            `json:"total_distance"`
	AssignedCount   int                `json:"assigned_count"`
	UnassignedCount int                `json:"unassigned_count"`
	VehiclesUsed    int                `json:"vehicles_used"`
}

// CompareScenarios runs optimization for each scenario and returns the results
// in scenario order, enabling side-by-side comparison of algorithms and
// hyperparameters on the same problem.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, pkgs []model.Package, fleet []model.Vehicle, opts ...Option) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		res, err := New(scenario.Settings, opts...).Optimize(ctx, pkgs, fleet)
		if err != nil {
			return results, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		results = append(results, ComparisonResult{
			Scenario:        scenario,
			Result:          res,
			TotalDistance:   res.TotalDistance(),
			AssignedCount:   res.Solution.AssignedCount(),
			UnassignedCount: len(res.Unassigned),
			VehiclesUsed:    res.Solution.VehiclesUsed(),
		})
	}

	return results, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	// Scenario: Try the other algorithm
	alt := base
	if base.Algorithm == model.AlgorithmGenetic {
		alt.Algorithm = model.AlgorithmAnnealing
		scenarios = append(scenarios, ComparisonScenario{Name: "Simulated Annealing", Settings: alt})
	} else {
		alt.Algorithm = model.AlgorithmGenetic
		scenarios = append(scenarios, ComparisonScenario{Name: "Genetic Algorithm", Settings: alt})
	}

	// Scenario: Slower cooling (more temperature steps)
	if base.Annealing.CoolingRate < 0.99 {
		slow := base
		slow.Algorithm = model.AlgorithmAnnealing
		slow.Annealing.CoolingRate = 0.99
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Annealing, cooling %.2f", slow.Annealing.CoolingRate),
			Settings: slow,
		})
	}

	// Scenario: Larger population with stronger mutation
	big := base
	big.Algorithm = model.AlgorithmGenetic
	big.Genetic.PopulationSize = base.Genetic.PopulationSize * 2
	big.Genetic.MutationRate = min(base.Genetic.MutationRate*2, 0.3)
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Genetic, population %d", big.Genetic.PopulationSize),
		Settings: big,
	})

	return scenarios
}

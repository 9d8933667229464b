package engine

import (
	"bytes"
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/piwi3910/FleetPack/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func concreteScenario() ([]model.Package, []model.Vehicle) {
	pkgs := []model.Package{
		{ID: 0, X: 3, Y: 4, Weight: 5, Priority: 1},
		{ID: 1, X: 0, Y: 0, Weight: 6, Priority: 2},
	}
	return pkgs, model.UniformFleet(1, 10)
}

func TestOptimizeConcreteScenario(t *testing.T) {
	for _, algo := range []model.Algorithm{model.AlgorithmAnnealing, model.AlgorithmGenetic} {
		t.Run(string(algo), func(t *testing.T) {
			pkgs, fleet := concreteScenario()
			res, err := New(makeFastSettings(algo)).Optimize(context.Background(), pkgs, fleet)
			require.NoError(t, err)

			require.Equal(t, 1, res.Solution.AssignedCount(), "never both packages")
			assert.Equal(t, 0, res.Solution.Vehicles[0].Packages[0].ID)
			assert.InDelta(t, 10.0, res.TotalDistance(), 1e-9)
			assert.Equal(t, []int{1}, res.Unassigned)
			assert.True(t, res.Solution.IsValid())
		})
	}
}

func TestOptimizeDeterministic(t *testing.T) {
	pkgs := makeTestPackages(20)
	for _, algo := range []model.Algorithm{model.AlgorithmAnnealing, model.AlgorithmGenetic} {
		t.Run(string(algo), func(t *testing.T) {
			settings := makeFastSettings(algo)
			a, err := New(settings).Optimize(context.Background(), pkgs, makeTestFleet())
			require.NoError(t, err)
			b, err := New(settings).Optimize(context.Background(), pkgs, makeTestFleet())
			require.NoError(t, err)

			assert.Equal(t, routeIDs(a.Solution), routeIDs(b.Solution))
			assert.Equal(t, a.TotalDistance(), b.TotalDistance())
			assert.NotEqual(t, a.RunID, b.RunID)
		})
	}
}

func TestOptimizeSeedFromClock(t *testing.T) {
	fixed := time.Unix(0, 123456789)
	settings := makeFastSettings(model.AlgorithmAnnealing)
	settings.Seed = 0

	res, err := New(settings, WithClock(func() time.Time { return fixed })).
		Optimize(context.Background(), makeTestPackages(5), makeTestFleet())
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), res.Seed)
}

func TestOptimizeRejectsInvalidSettings(t *testing.T) {
	settings := makeFastSettings(model.AlgorithmAnnealing)
	settings.Annealing.CoolingRate = 1.5

	_, err := New(settings).Optimize(context.Background(), makeTestPackages(3), makeTestFleet())
	assert.ErrorIs(t, err, model.ErrInvalidSettings)
}

func TestOptimizeRejectsInvalidInput(t *testing.T) {
	pkgs := []model.Package{{ID: 1, Weight: 1, Priority: 1}, {ID: 1, Weight: 1, Priority: 1}}

	_, err := New(makeFastSettings(model.AlgorithmGenetic)).Optimize(context.Background(), pkgs, makeTestFleet())
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestOptimizeFeasibleOverRandomConfigurations(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	for i := 0; i < 30; i++ {
		n := rng.Intn(40)
		fleet := model.UniformFleet(1+rng.Intn(5), 5+rng.Float64()*40)
		pkgs := make([]model.Package, n)
		for k := range pkgs {
			pkgs[k] = model.Package{
				ID:       k,
				X:        rng.Float64()*200 - 100,
				Y:        rng.Float64()*200 - 100,
				Weight:   1 + rng.Float64()*14,
				Priority: 1 + rng.Intn(5),
			}
		}

		for _, algo := range []model.Algorithm{model.AlgorithmAnnealing, model.AlgorithmGenetic} {
			settings := makeFastSettings(algo)
			settings.Seed = int64(i + 1)
			settings.Genetic.PopulationSize = 10
			settings.Genetic.Generations = 10
			settings.Genetic.Workers = 1 + i%3

			res, err := New(settings).Optimize(context.Background(), pkgs, fleet)
			require.NoError(t, err, "config %d %s", i, algo)
			assertFeasible(t, res.Solution)
			assert.Equal(t, n, res.Solution.AssignedCount()+len(res.Unassigned), "config %d %s", i, algo)
		}
	}
}

func TestOptimizeRejectsNonFiniteInput(t *testing.T) {
	pkgs := []model.Package{
		{ID: 0, X: math.NaN(), Y: 4, Weight: 5, Priority: 1},
		{ID: 1, X: 1, Y: 1, Weight: 2, Priority: 2},
	}
	for _, algo := range []model.Algorithm{model.AlgorithmAnnealing, model.AlgorithmGenetic} {
		_, err := New(makeFastSettings(algo)).Optimize(context.Background(), pkgs, makeTestFleet())
		assert.ErrorIs(t, err, model.ErrInvalidInput, algo)
	}

	settings := makeFastSettings(model.AlgorithmAnnealing)
	settings.Annealing.InitialTemperature = math.Inf(1)
	_, err := New(settings).Optimize(context.Background(), makeTestPackages(3), makeTestFleet())
	assert.ErrorIs(t, err, model.ErrInvalidSettings)
}

func TestOptimizeEmptyFleet(t *testing.T) {
	for _, algo := range []model.Algorithm{model.AlgorithmAnnealing, model.AlgorithmGenetic} {
		pkgs := makeTestPackages(3)
		res, err := New(makeFastSettings(algo)).Optimize(context.Background(), pkgs, nil)
		require.NoError(t, err, algo)
		assert.Equal(t, []int{0, 1, 2}, res.Unassigned, algo)
	}
}

func TestOptimizeLogsUnassigned(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	pkgs, fleet := concreteScenario()

	_, err := New(makeFastSettings(model.AlgorithmAnnealing), WithLogger(logger)).
		Optimize(context.Background(), pkgs, fleet)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "optimization finished")
	assert.Contains(t, buf.String(), "packages left unassigned")
}

func TestRunEnsemble(t *testing.T) {
	pkgs := makeTestPackages(15)
	settings := makeFastSettings(model.AlgorithmAnnealing)

	ens, err := RunEnsemble(context.Background(), settings, pkgs, makeTestFleet(), 4, 2)
	require.NoError(t, err)

	require.Len(t, ens.Runs, 4)
	for i, r := range ens.Runs {
		assert.Equal(t, settings.Seed+int64(i), r.Seed)
		assertFeasible(t, r.Solution)
		assert.GreaterOrEqual(t, r.TotalDistance(), ens.Min)
		assert.LessOrEqual(t, r.TotalDistance(), ens.Max)
	}
	assert.Equal(t, ens.Min, ens.Best.TotalDistance())
	assert.GreaterOrEqual(t, ens.Mean, ens.Min-1e-9)
	assert.GreaterOrEqual(t, ens.StdDev, 0.0)

	// same seeds, same outcome regardless of worker count
	again, err := RunEnsemble(context.Background(), settings, pkgs, makeTestFleet(), 4, 4)
	require.NoError(t, err)
	assert.Equal(t, ens.BestIndex, again.BestIndex)
	assert.Equal(t, ens.Min, again.Min)
}

func TestRunEnsembleSeedFromClock(t *testing.T) {
	fixed := time.Unix(0, 5000)
	settings := makeFastSettings(model.AlgorithmAnnealing)
	settings.Seed = 0

	ens, err := RunEnsemble(context.Background(), settings, makeTestPackages(5), makeTestFleet(), 3, 2,
		WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	for i, r := range ens.Runs {
		assert.Equal(t, int64(5000+i), r.Seed)
	}
}

func TestRunEnsembleSingleRun(t *testing.T) {
	ens, err := RunEnsemble(context.Background(), makeFastSettings(model.AlgorithmAnnealing), makeTestPackages(5), makeTestFleet(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ens.StdDev)
	assert.Equal(t, ens.Min, ens.Mean)
}

func TestRunEnsembleRejectsZeroRuns(t *testing.T) {
	_, err := RunEnsemble(context.Background(), makeFastSettings(model.AlgorithmAnnealing), nil, makeTestFleet(), 0, 1)
	assert.ErrorIs(t, err, model.ErrInvalidSettings)
}

func TestCompareScenarios(t *testing.T) {
	base := makeFastSettings(model.AlgorithmAnnealing)
	scenarios := BuildDefaultScenarios(base)
	require.GreaterOrEqual(t, len(scenarios), 3)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, model.AlgorithmGenetic, scenarios[1].Settings.Algorithm)

	// keep the comparison quick
	for i := range scenarios {
		scenarios[i].Settings.Genetic.Generations = 5
		scenarios[i].Settings.Genetic.PopulationSize = 8
		scenarios[i].Settings.Annealing.CoolingRate = 0.8
	}

	pkgs := makeTestPackages(12)
	results, err := CompareScenarios(context.Background(), scenarios, pkgs, makeTestFleet())
	require.NoError(t, err)
	require.Len(t, results, len(scenarios))
	for _, r := range results {
		assert.Equal(t, len(pkgs), r.AssignedCount+r.UnassignedCount, r.Scenario.Name)
		assert.InDelta(t, r.Result.TotalDistance(), r.TotalDistance, 1e-9)
	}
}

func TestBuildDefaultScenariosFromGenetic(t *testing.T) {
	base := model.DefaultSettings()
	base.Algorithm = model.AlgorithmGenetic

	scenarios := BuildDefaultScenarios(base)
	assert.Equal(t, model.AlgorithmAnnealing, scenarios[1].Settings.Algorithm)
	last := scenarios[len(scenarios)-1]
	assert.Equal(t, 160, last.Settings.Genetic.PopulationSize)
	assert.InDelta(t, 0.1, last.Settings.Genetic.MutationRate, 1e-12)
}

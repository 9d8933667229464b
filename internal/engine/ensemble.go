package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/FleetPack/internal/model"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// EnsembleResult summarizes independent runs of the same problem.
type EnsembleResult struct {
	Runs      []Result `json:"runs"`
	Best      Result   `json:"best"`
	BestIndex int      `json:"best_index"`
	Mean      float64  `json:"mean_distance"`
	StdDev    float64  `json:"stddev_distance"`
	Min       float64  `json:"min_distance"`
	Max       float64  `json:"max_distance"`
}

// RunEnsemble executes runs independent optimizations with seeds seed, seed+1, ...
// using at most workers goroutines. Only the package data is shared between
// runs, and it is read-only. The best run is the shortest, ties going to the
// lower run index, so the summary is deterministic for a fixed seed.
func RunEnsemble(ctx context.Context, settings model.Settings, pkgs []model.Package, fleet []model.Vehicle, runs, workers int, opts ...Option) (EnsembleResult, error) {
	if runs < 1 {
		return EnsembleResult{}, fmt.Errorf("ensemble: %w: runs must be at least 1", model.ErrInvalidSettings)
	}
	if workers < 1 {
		workers = 1
	}
	if settings.Seed == 0 {
		settings.Seed = New(settings, opts...).now().UnixNano()
	}

	results := make([]Result, runs)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < runs; i++ {
		s := settings
		s.Seed = settings.Seed + int64(i)
		eg.Go(func() error {
			res, err := New(s, opts...).Optimize(ctx, pkgs, fleet)
			if err != nil {
				return fmt.Errorf("ensemble run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return EnsembleResult{}, err
	}

	distances := make([]float64, runs)
	for i, r := range results {
		distances[i] = r.TotalDistance()
	}

	out := EnsembleResult{
		Runs:      results,
		BestIndex: floats.MinIdx(distances),
		Min:       floats.Min(distances),
		Max:       floats.Max(distances),
	}
	out.Best = results[out.BestIndex]
	if runs == 1 {
		out.Mean = distances[0]
	} else {
		out.Mean, out.StdDev = stat.MeanStdDev(distances, nil)
	}
	return out, nil
}

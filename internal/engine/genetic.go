package engine

import (
	"context"
	"math/rand"
	"sort"

	"github.com/piwi3910/FleetPack/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// zeroDistanceFitness is the fitness of a solution whose routes have no length.
const zeroDistanceFitness = 1e6

// progressInterval is how often, in generations, progress is logged.
const progressInterval = 50

// rouletteWheel selects population members with probability proportional to fitness.
type rouletteWheel struct {
	cumulative []float64
}

func newRouletteWheel(distances []float64) rouletteWheel {
	cum := make([]float64, len(distances))
	var total float64
	for i, d := range distances {
		total += fitness(d)
		cum[i] = total
	}
	return rouletteWheel{cumulative: cum}
}

// fitness is the inverse of total distance.
func fitness(distance float64) float64 {
	if distance <= 0 {
		return zeroDistanceFitness
	}
	return 1.0 / distance
}

func (w rouletteWheel) spin(rng *rand.Rand) int {
	n := len(w.cumulative)
	x := rng.Float64() * w.cumulative[n-1]
	i := sort.Search(n, func(i int) bool { return w.cumulative[i] > x })
	if i >= n {
		i = n - 1
	}
	return i
}

// generation is the read-only view of a population shared by breeding workers.
type generation struct {
	members   []*model.Solution
	distances []float64
	wheel     rouletteWheel
}

// geneticOptimizer implements the genetic algorithm over package assignments.
type geneticOptimizer struct {
	cfg     model.GeneticSettings
	pkgs    []*model.Package
	fleet   []model.Vehicle
	rng     *rand.Rand
	workers []*rand.Rand
	log     zerolog.Logger
}

func newGeneticOptimizer(rng *rand.Rand, seed int64, pkgs []*model.Package, fleet []model.Vehicle, cfg model.GeneticSettings, log zerolog.Logger) *geneticOptimizer {
	g := &geneticOptimizer{cfg: cfg, pkgs: pkgs, fleet: fleet, rng: rng, log: log}
	if cfg.Workers > 1 {
		g.workers = make([]*rand.Rand, cfg.Workers)
		for w := range g.workers {
			g.workers[w] = rand.New(rand.NewSource(seed + int64(w) + 1))
		}
	}
	return g
}

// Evolve runs the genetic algorithm and returns the best solution ever seen.
// When cfg.Workers > 1, offspring are bred concurrently with one random stream
// per worker seeded from seed and the worker index.
func Evolve(ctx context.Context, rng *rand.Rand, seed int64, pkgs []*model.Package, fleet []model.Vehicle, cfg model.GeneticSettings, log zerolog.Logger) (Run, error) {
	return newGeneticOptimizer(rng, seed, pkgs, fleet, cfg, log).run(ctx)
}

func (g *geneticOptimizer) run(ctx context.Context) (Run, error) {
	// Nothing can ever be placed: the empty assignment is the only solution.
	if !anyPlaceable(g.pkgs, g.fleet) {
		g.log.Debug().Int("packages", len(g.pkgs)).Msg("no placeable packages, skipping evolution")
		return Run{Solution: model.NewSolution(g.fleet), History: []float64{}}, nil
	}

	var stats Stats
	population, attempts, err := g.initPopulation()
	stats.ConstructionAttempts = attempts
	if err != nil {
		return Run{Stats: stats}, err
	}

	gen := g.evaluate(population)
	best, bestDist := g.fittest(gen)
	history := make([]float64, 0, g.cfg.Generations)

	for n := 0; n < g.cfg.Generations; n++ {
		if err := ctx.Err(); err != nil {
			return Run{}, err
		}

		offspring, err := g.breed(ctx, gen)
		if err != nil {
			return Run{}, err
		}
		stats.RejectedOffspring += g.cfg.PopulationSize - len(offspring)
		if len(offspring) > 0 {
			gen = g.evaluate(offspring)
		}

		if s, d := g.fittest(gen); d < bestDist {
			best, bestDist = s, d
			stats.Improvements++
		}
		history = append(history, bestDist)
		stats.Generations++

		if (n+1)%progressInterval == 0 {
			g.log.Debug().
				Int("generation", n+1).
				Float64("best_distance", bestDist).
				Int("population", len(gen.members)).
				Msg("evolution progress")
		}
	}

	return Run{Solution: best, History: history, Stats: stats}, nil
}

// initPopulation builds PopulationSize independent greedy solutions.
func (g *geneticOptimizer) initPopulation() ([]*model.Solution, int, error) {
	population := make([]*model.Solution, 0, g.cfg.PopulationSize)
	total := 0
	for i := 0; i < g.cfg.PopulationSize; i++ {
		s, attempts, err := ConstructWithRetry(g.rng, g.pkgs, g.fleet, g.cfg.MaxConstructionAttempts)
		total += attempts
		if err != nil {
			return nil, total, err
		}
		population = append(population, s)
	}
	return population, total, nil
}

// evaluate caches each member's distance and builds the selection wheel.
func (g *geneticOptimizer) evaluate(members []*model.Solution) generation {
	distances := make([]float64, len(members))
	for i, s := range members {
		distances[i] = s.TotalDistance()
	}
	return generation{members: members, distances: distances, wheel: newRouletteWheel(distances)}
}

// fittest returns the shortest member; ties go to the lowest index.
func (g *geneticOptimizer) fittest(gen generation) (*model.Solution, float64) {
	bi := 0
	for i, d := range gen.distances {
		if d < gen.distances[bi] {
			bi = i
		}
	}
	return gen.members[bi], gen.distances[bi]
}

// breed produces the next generation. Rejected children leave no trace, so the
// result may be shorter than PopulationSize. Slots are filled in a fixed order
// per worker, which keeps runs reproducible for a given seed and worker count.
func (g *geneticOptimizer) breed(ctx context.Context, gen generation) ([]*model.Solution, error) {
	slots := make([]*model.Solution, g.cfg.PopulationSize)

	if len(g.workers) == 0 {
		for i := range slots {
			slots[i] = g.offspring(g.rng, gen)
		}
	} else {
		eg, ctx := errgroup.WithContext(ctx)
		stride := len(g.workers)
		for w, rng := range g.workers {
			eg.Go(func() error {
				for i := w; i < len(slots); i += stride {
					if err := ctx.Err(); err != nil {
						return err
					}
					slots[i] = g.offspring(rng, gen)
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	out := slots[:0]
	for _, s := range slots {
		if s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

// offspring selects two parents, recombines and maybe mutates them. It returns
// nil when the child is invalid or assigns nothing.
func (g *geneticOptimizer) offspring(rng *rand.Rand, gen generation) *model.Solution {
	i := gen.wheel.spin(rng)
	j := gen.wheel.spin(rng)

	child := g.crossover(rng, gen.members[i], gen.members[j], gen.distances[i], gen.distances[j])
	if rng.Float64() < g.cfg.MutationRate {
		g.mutate(rng, child)
	}

	if !child.IsValid() || child.AssignedCount() == 0 {
		return nil
	}
	return child
}

// crossover re-packs the union of both parents' packages into fresh vehicles.
// The shorter parent is scanned first, which fixes the re-pack order; on equal
// distance the first selected parent leads.
func (g *geneticOptimizer) crossover(rng *rand.Rand, a, b *model.Solution, da, db float64) *model.Solution {
	first, second := a, b
	if db < da {
		first, second = b, a
	}

	seen := make(map[int]bool, len(g.pkgs))
	order := make([]*model.Package, 0, len(g.pkgs))
	for _, parent := range []*model.Solution{first, second} {
		for _, v := range parent.Vehicles {
			for _, p := range v.Packages {
				if !seen[p.ID] {
					seen[p.ID] = true
					order = append(order, p)
				}
			}
		}
	}

	child := model.NewSolution(g.fleet)
	for _, p := range order {
		place(rng, child, p)
	}
	return child
}

// mutate moves one random package of one random vehicle elsewhere. An empty
// vehicle, or a package nobody else can take, leaves s unchanged.
func (g *geneticOptimizer) mutate(rng *rand.Rand, s *model.Solution) {
	vi := rng.Intn(len(s.Vehicles))
	v := s.Vehicles[vi]
	if len(v.Packages) == 0 {
		return
	}
	relocate(rng, s, vi, rng.Intn(len(v.Packages)))
}

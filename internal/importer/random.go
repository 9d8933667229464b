package importer

import (
	"math"
	"math/rand"

	"github.com/piwi3910/FleetPack/internal/model"
)

// GridSize is the side length of the square that random packages are scattered over.
const GridSize = 100.0

// Generate creates n random packages and a uniform fleet. Coordinates are
// uniform in [0, GridSize], weights uniform in [1, 10] rounded to 0.01 and
// priorities uniform in 1..5. The same rng state always yields the same problem.
func Generate(rng *rand.Rand, n, vehicles int, capacity float64) ([]model.Package, []model.Vehicle) {
	pkgs := make([]model.Package, n)
	for i := range pkgs {
		pkgs[i] = model.Package{
			ID:       i,
			X:        rng.Float64() * GridSize,
			Y:        rng.Float64() * GridSize,
			Weight:   math.Round((1+rng.Float64()*9)*100) / 100,
			Priority: 1 + rng.Intn(5),
		}
	}
	return pkgs, model.UniformFleet(vehicles, capacity)
}

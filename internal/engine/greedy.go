package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/FleetPack/internal/model"
)

// PackageRefs returns pointers into pkgs so solutions reference the caller's
// packages instead of copying them.
func PackageRefs(pkgs []model.Package) []*model.Package {
	refs := make([]*model.Package, len(pkgs))
	for i := range pkgs {
		refs[i] = &pkgs[i]
	}
	return refs
}

// byPriority returns pkgs stably sorted by ascending priority.
func byPriority(pkgs []*model.Package) []*model.Package {
	ordered := make([]*model.Package, len(pkgs))
	copy(ordered, pkgs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	return ordered
}

// place appends p to the first vehicle, in a freshly shuffled visiting order,
// that can take it. Vehicle order in the solution is left untouched.
func place(rng *rand.Rand, s *model.Solution, p *model.Package) bool {
	for _, vi := range rng.Perm(len(s.Vehicles)) {
		v := s.Vehicles[vi]
		if v.CanAdd(p) {
			v.Packages = append(v.Packages, p)
			return true
		}
	}
	return false
}

// Construct builds a randomized greedy solution: packages in priority order,
// each dropped into the first shuffled vehicle with room. Packages that fit
// nowhere stay unassigned.
func Construct(rng *rand.Rand, pkgs []*model.Package, fleet []model.Vehicle) *model.Solution {
	s := model.NewSolution(fleet)
	for _, p := range byPriority(pkgs) {
		place(rng, s, p)
	}
	return s
}

// ConstructWithRetry repeats Construct until it yields a valid solution with at
// least one assigned package. It returns the solution together with the number
// of attempts used, or a *ConstructionExhaustedError once maxAttempts is spent.
func ConstructWithRetry(rng *rand.Rand, pkgs []*model.Package, fleet []model.Vehicle, maxAttempts int) (*model.Solution, int, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		s := Construct(rng, pkgs, fleet)
		if s.IsValid() && s.AssignedCount() > 0 {
			return s, attempt, nil
		}
	}
	return nil, maxAttempts, &ConstructionExhaustedError{Attempts: maxAttempts}
}

// anyPlaceable reports whether at least one package fits in at least one empty vehicle.
func anyPlaceable(pkgs []*model.Package, fleet []model.Vehicle) bool {
	for _, p := range pkgs {
		for i := range fleet {
			if p.Weight <= fleet[i].Capacity {
				return true
			}
		}
	}
	return false
}

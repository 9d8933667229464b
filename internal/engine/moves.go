package engine

import (
	"math/rand"
	"slices"

	"github.com/piwi3910/FleetPack/internal/model"
)

// relocate removes the package at (vi, slot) and appends it to a random other
// vehicle with room for it. With no such vehicle the package goes back into its
// original slot and s is unchanged. Reports whether the package moved.
func relocate(rng *rand.Rand, s *model.Solution, vi, slot int) bool {
	src := s.Vehicles[vi]
	p := src.Packages[slot]
	src.Packages = slices.Delete(src.Packages, slot, slot+1)

	var candidates []int
	for i, v := range s.Vehicles {
		if i != vi && v.CanAdd(p) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		src.Packages = slices.Insert(src.Packages, slot, p)
		return false
	}

	dst := s.Vehicles[candidates[rng.Intn(len(candidates))]]
	dst.Packages = append(dst.Packages, p)
	return true
}

// locate maps a flat index over all assigned packages to (vehicle, slot).
func locate(s *model.Solution, k int) (int, int) {
	for vi, v := range s.Vehicles {
		if k < len(v.Packages) {
			return vi, k
		}
		k -= len(v.Packages)
	}
	return -1, -1
}

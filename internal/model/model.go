package model

import "math"

// Point represents a 2D coordinate on the delivery plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Depot is the fixed start and end point of every route.
var Depot = Point{X: 0, Y: 0}

// DistanceTo returns the Euclidean distance between two points.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Package is a delivery item. Lower Priority values are more urgent (1..5).
type Package struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Weight   float64 `json:"weight"`
	Priority int     `json:"priority"`
}

// Location returns the delivery point of the package.
func (p Package) Location() Point {
	return Point{X: p.X, Y: p.Y}
}

// Vehicle is a capacity-bounded container holding an ordered delivery sequence.
// Packages are referenced, never copied: they point into the caller's slice.
type Vehicle struct {
	ID       int        `json:"id"`
	Capacity float64    `json:"capacity"`
	Packages []*Package `json:"packages,omitempty"`
}

// NewVehicle returns an empty vehicle.
func NewVehicle(id int, capacity float64) Vehicle {
	return Vehicle{ID: id, Capacity: capacity}
}

// Empty returns a vehicle with the same identity and capacity but no packages.
func (v *Vehicle) Empty() *Vehicle {
	return &Vehicle{ID: v.ID, Capacity: v.Capacity}
}

// Clone copies the delivery sequence; the packages themselves are shared.
func (v *Vehicle) Clone() *Vehicle {
	c := &Vehicle{ID: v.ID, Capacity: v.Capacity}
	if len(v.Packages) > 0 {
		c.Packages = make([]*Package, len(v.Packages))
		copy(c.Packages, v.Packages)
	}
	return c
}

// CurrentLoad returns the summed weight of the assigned packages.
func (v *Vehicle) CurrentLoad() float64 {
	var load float64
	for _, p := range v.Packages {
		load += p.Weight
	}
	return load
}

// CanAdd reports whether the package fits in the remaining capacity.
func (v *Vehicle) CanAdd(p *Package) bool {
	return v.CurrentLoad()+p.Weight <= v.Capacity
}

// Route returns the depot, each package location in sequence, and the depot again.
func (v *Vehicle) Route() []Point {
	route := make([]Point, 0, len(v.Packages)+2)
	route = append(route, Depot)
	for _, p := range v.Packages {
		route = append(route, p.Location())
	}
	return append(route, Depot)
}

// Distance returns the length of the closed route.
func (v *Vehicle) Distance() float64 {
	route := v.Route()
	var d float64
	for i := 1; i < len(route); i++ {
		d += route[i-1].DistanceTo(route[i])
	}
	return d
}

// Utilization returns the load as a percentage of capacity (0-100).
func (v *Vehicle) Utilization() float64 {
	if v.Capacity <= 0 {
		return 0
	}
	return v.CurrentLoad() / v.Capacity * 100.0
}

// Solution is one assignment of packages to vehicles. A package appears in at
// most one vehicle; packages that fit nowhere are simply absent.
type Solution struct {
	Vehicles []*Vehicle `json:"vehicles"`
}

// NewSolution creates a solution with one empty vehicle per fleet entry.
func NewSolution(fleet []Vehicle) *Solution {
	s := &Solution{Vehicles: make([]*Vehicle, len(fleet))}
	for i := range fleet {
		s.Vehicles[i] = fleet[i].Empty()
	}
	return s
}

// TotalDistance returns the summed route length over all vehicles.
func (s *Solution) TotalDistance() float64 {
	var d float64
	for _, v := range s.Vehicles {
		d += v.Distance()
	}
	return d
}

// IsValid reports whether every vehicle is within capacity.
func (s *Solution) IsValid() bool {
	for _, v := range s.Vehicles {
		if v.CurrentLoad() > v.Capacity {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the assignment.
func (s *Solution) Clone() *Solution {
	c := &Solution{Vehicles: make([]*Vehicle, len(s.Vehicles))}
	for i, v := range s.Vehicles {
		c.Vehicles[i] = v.Clone()
	}
	return c
}

// AssignedCount returns the number of package slots across all vehicles.
func (s *Solution) AssignedCount() int {
	n := 0
	for _, v := range s.Vehicles {
		n += len(v.Packages)
	}
	return n
}

// AssignedIDs returns the set of package ids present in the solution.
func (s *Solution) AssignedIDs() map[int]bool {
	ids := make(map[int]bool, s.AssignedCount())
	for _, v := range s.Vehicles {
		for _, p := range v.Packages {
			ids[p.ID] = true
		}
	}
	return ids
}

// Unassigned returns, in input order, the ids of pkgs that are not in the solution.
func (s *Solution) Unassigned(pkgs []Package) []int {
	assigned := s.AssignedIDs()
	out := []int{}
	for _, p := range pkgs {
		if !assigned[p.ID] {
			out = append(out, p.ID)
		}
	}
	return out
}

// Duplicates returns ids that occupy more than one slot.
func (s *Solution) Duplicates() []int {
	seen := make(map[int]int)
	var dups []int
	for _, v := range s.Vehicles {
		for _, p := range v.Packages {
			seen[p.ID]++
			if seen[p.ID] == 2 {
				dups = append(dups, p.ID)
			}
		}
	}
	return dups
}

// VehiclesUsed returns the number of vehicles with at least one package.
func (s *Solution) VehiclesUsed() int {
	n := 0
	for _, v := range s.Vehicles {
		if len(v.Packages) > 0 {
			n++
		}
	}
	return n
}

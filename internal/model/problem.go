package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when packages or vehicles violate basic constraints.
var ErrInvalidInput = errors.New("invalid input")

// Problem is the saved, shareable description of a routing instance.
// Solutions are never persisted with it.
type Problem struct {
	Name     string    `json:"name"`
	Packages []Package `json:"packages"`
	Vehicles []Vehicle `json:"vehicles"`
	Settings Settings  `json:"settings"`
}

// NewProblem returns an empty problem with default settings.
func NewProblem() Problem {
	return Problem{
		Name:     "Untitled",
		Packages: []Package{},
		Vehicles: []Vehicle{},
		Settings: DefaultSettings(),
	}
}

// Validate checks the package and vehicle records.
func (p Problem) Validate() error {
	return ValidateInput(p.Packages, p.Vehicles)
}

// ValidateInput checks ids are unique and non-negative, numbers are finite,
// weights and capacities are positive, and priorities are in 1..5. Vehicles
// arriving with packages are rejected.
func ValidateInput(pkgs []Package, vehicles []Vehicle) error {
	seen := make(map[int]bool, len(pkgs))
	for _, p := range pkgs {
		if p.ID < 0 {
			return fmt.Errorf("%w: package id %d is negative", ErrInvalidInput, p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate package id %d", ErrInvalidInput, p.ID)
		}
		seen[p.ID] = true
		if !isFinite(p.X) || !isFinite(p.Y) {
			return fmt.Errorf("%w: package %d location must be finite", ErrInvalidInput, p.ID)
		}
		if !isFinite(p.Weight) || p.Weight <= 0 {
			return fmt.Errorf("%w: package %d weight must be positive", ErrInvalidInput, p.ID)
		}
		if p.Priority < 1 || p.Priority > 5 {
			return fmt.Errorf("%w: package %d priority %d must be between 1 and 5", ErrInvalidInput, p.ID, p.Priority)
		}
	}

	vseen := make(map[int]bool, len(vehicles))
	for _, v := range vehicles {
		if v.ID < 0 {
			return fmt.Errorf("%w: vehicle id %d is negative", ErrInvalidInput, v.ID)
		}
		if vseen[v.ID] {
			return fmt.Errorf("%w: duplicate vehicle id %d", ErrInvalidInput, v.ID)
		}
		vseen[v.ID] = true
		if !isFinite(v.Capacity) || v.Capacity <= 0 {
			return fmt.Errorf("%w: vehicle %d capacity must be positive", ErrInvalidInput, v.ID)
		}
		if len(v.Packages) > 0 {
			return fmt.Errorf("%w: vehicle %d must start empty", ErrInvalidInput, v.ID)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// UniformFleet creates n vehicles with ids 0..n-1 sharing one capacity.
func UniformFleet(n int, capacity float64) []Vehicle {
	fleet := make([]Vehicle, n)
	for i := range fleet {
		fleet[i] = NewVehicle(i, capacity)
	}
	return fleet
}

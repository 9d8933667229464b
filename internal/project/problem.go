package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/FleetPack/internal/model"
)

// SaveProblem writes a problem (packages, vehicles and settings) as JSON.
func SaveProblem(path string, p model.Problem) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	// Solutions are never persisted with the problem.
	vehicles := make([]model.Vehicle, len(p.Vehicles))
	for i, v := range p.Vehicles {
		vehicles[i] = model.NewVehicle(v.ID, v.Capacity)
	}
	p.Vehicles = vehicles

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadProblem reads and validates a JSON problem file. Settings missing from
// the file fall back to the defaults.
func LoadProblem(path string) (model.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Problem{}, err
	}

	p := model.NewProblem()
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Problem{}, fmt.Errorf("parse problem %s: %w", path, err)
	}
	if p.Packages == nil {
		p.Packages = []model.Package{}
	}
	if err := p.Validate(); err != nil {
		return model.Problem{}, fmt.Errorf("load problem %s: %w", path, err)
	}
	return p, nil
}

package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSettings is returned when optimizer hyperparameters are out of range.
var ErrInvalidSettings = errors.New("invalid settings")

// Algorithm represents the metaheuristic to run.
type Algorithm string

const (
	AlgorithmAnnealing Algorithm = "annealing" // Simulated annealing (single trajectory, fast)
	AlgorithmGenetic   Algorithm = "genetic"   // Genetic algorithm (population based, slower)
)

// ParseAlgorithm accepts the canonical names and the short forms "sa" and "ga".
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "annealing", "sa", "simulated-annealing":
		return AlgorithmAnnealing, nil
	case "genetic", "ga":
		return AlgorithmGenetic, nil
	default:
		return "", fmt.Errorf("%w: unknown algorithm %q", ErrInvalidSettings, s)
	}
}

// AnnealingSettings holds simulated annealing parameters.
type AnnealingSettings struct {
	InitialTemperature       float64 `json:"initial_temperature" yaml:"initial_temperature" mapstructure:"initial_temperature"`
	CoolingRate              float64 `json:"cooling_rate" yaml:"cooling_rate" mapstructure:"cooling_rate"`
	StoppingTemperature      float64 `json:"stopping_temperature" yaml:"stopping_temperature" mapstructure:"stopping_temperature"`
	IterationsPerTemperature int     `json:"iterations_per_temperature" yaml:"iterations_per_temperature" mapstructure:"iterations_per_temperature"`
}

// GeneticSettings holds genetic algorithm parameters.
type GeneticSettings struct {
	PopulationSize          int     `json:"population_size" yaml:"population_size" mapstructure:"population_size"`
	MutationRate            float64 `json:"mutation_rate" yaml:"mutation_rate" mapstructure:"mutation_rate"`
	Generations             int     `json:"generations" yaml:"generations" mapstructure:"generations"`
	MaxConstructionAttempts int     `json:"max_construction_attempts" yaml:"max_construction_attempts" mapstructure:"max_construction_attempts"`
	Workers                 int     `json:"workers" yaml:"workers" mapstructure:"workers"` // offspring workers per generation
}

// Settings is the explicit run configuration for one optimization.
type Settings struct {
	Algorithm Algorithm         `json:"algorithm"`
	Seed      int64             `json:"seed"` // 0 = derive from the clock
	Annealing AnnealingSettings `json:"annealing"`
	Genetic   GeneticSettings   `json:"genetic"`
}

// DefaultAnnealingSettings returns the annealing schedule used when nothing is configured.
func DefaultAnnealingSettings() AnnealingSettings {
	return AnnealingSettings{
		InitialTemperature:       1000,
		CoolingRate:              0.95,
		StoppingTemperature:      1,
		IterationsPerTemperature: 100,
	}
}

// DefaultGeneticSettings returns the genetic parameters used when nothing is configured.
func DefaultGeneticSettings() GeneticSettings {
	return GeneticSettings{
		PopulationSize:          80,
		MutationRate:            0.05,
		Generations:             500,
		MaxConstructionAttempts: 100,
		Workers:                 1,
	}
}

// DefaultSettings returns annealing with default parameters for both
// algorithms and a clock-derived seed.
func DefaultSettings() Settings {
	return Settings{
		Algorithm: AlgorithmAnnealing,
		Annealing: DefaultAnnealingSettings(),
		Genetic:   DefaultGeneticSettings(),
	}
}

// Validate checks the annealing parameters.
func (a AnnealingSettings) Validate() error {
	switch {
	case !isFinite(a.InitialTemperature) || !isFinite(a.StoppingTemperature) || !isFinite(a.CoolingRate):
		return fmt.Errorf("%w: annealing temperatures and cooling rate must be finite", ErrInvalidSettings)
	case a.CoolingRate <= 0 || a.CoolingRate >= 1:
		return fmt.Errorf("%w: cooling rate %.4f must be in (0, 1)", ErrInvalidSettings, a.CoolingRate)
	case a.StoppingTemperature <= 0:
		return fmt.Errorf("%w: stopping temperature must be positive", ErrInvalidSettings)
	case a.InitialTemperature <= a.StoppingTemperature:
		return fmt.Errorf("%w: initial temperature %.2f must exceed stopping temperature %.2f",
			ErrInvalidSettings, a.InitialTemperature, a.StoppingTemperature)
	case a.IterationsPerTemperature < 1:
		return fmt.Errorf("%w: iterations per temperature must be at least 1", ErrInvalidSettings)
	}
	return nil
}

// Validate checks the genetic parameters.
func (g GeneticSettings) Validate() error {
	switch {
	case g.PopulationSize < 1:
		return fmt.Errorf("%w: population size must be at least 1", ErrInvalidSettings)
	case math.IsNaN(g.MutationRate) || g.MutationRate < 0 || g.MutationRate > 1:
		return fmt.Errorf("%w: mutation rate %.4f must be in [0, 1]", ErrInvalidSettings, g.MutationRate)
	case g.Generations < 0:
		return fmt.Errorf("%w: generations cannot be negative", ErrInvalidSettings)
	case g.MaxConstructionAttempts < 1:
		return fmt.Errorf("%w: max construction attempts must be at least 1", ErrInvalidSettings)
	case g.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidSettings)
	}
	return nil
}

// Validate checks the parameters of the selected algorithm only.
func (s Settings) Validate() error {
	switch s.Algorithm {
	case AlgorithmAnnealing:
		return s.Annealing.Validate()
	case AlgorithmGenetic:
		return s.Genetic.Validate()
	default:
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidSettings, s.Algorithm)
	}
}

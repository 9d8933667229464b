package model

import "strings"

// Preset is a named bundle of hyperparameters for both algorithms.
type Preset struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Annealing   AnnealingSettings `json:"annealing"`
	Genetic     GeneticSettings   `json:"genetic"`
	IsBuiltIn   bool              `json:"is_built_in"`
}

// DefaultPresetName is the preset matching DefaultSettings.
const DefaultPresetName = "Balanced"

// BuiltInPresets returns the presets shipped with the application.
func BuiltInPresets() []Preset {
	return []Preset{
		{
			Name:        "Quick",
			Description: "Short runs for previews and small instances",
			Annealing: AnnealingSettings{
				InitialTemperature:       500,
				CoolingRate:              0.9,
				StoppingTemperature:      1,
				IterationsPerTemperature: 50,
			},
			Genetic: GeneticSettings{
				PopulationSize:          40,
				MutationRate:            0.05,
				Generations:             150,
				MaxConstructionAttempts: 100,
				Workers:                 1,
			},
			IsBuiltIn: true,
		},
		{
			Name:        DefaultPresetName,
			Description: "Default hyperparameters",
			Annealing:   DefaultAnnealingSettings(),
			Genetic:     DefaultGeneticSettings(),
			IsBuiltIn:   true,
		},
		{
			Name:        "Thorough",
			Description: "Slow cooling and large populations for final plans",
			Annealing: AnnealingSettings{
				InitialTemperature:       2000,
				CoolingRate:              0.99,
				StoppingTemperature:      0.5,
				IterationsPerTemperature: 200,
			},
			Genetic: GeneticSettings{
				PopulationSize:          150,
				MutationRate:            0.08,
				Generations:             1500,
				MaxConstructionAttempts: 200,
				Workers:                 4,
			},
			IsBuiltIn: true,
		},
	}
}

// FindPreset looks a preset up by case-insensitive name.
func FindPreset(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

// Apply copies the preset hyperparameters into s, keeping algorithm and seed.
func (p Preset) Apply(s *Settings) {
	s.Annealing = p.Annealing
	s.Genetic = p.Genetic
}

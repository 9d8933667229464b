package model

// AppConfig holds application-wide preferences and default settings.
// It is read from YAML with environment overrides (FLEETPACK_*).
type AppConfig struct {
	// Default optimizer settings applied to new runs
	DefaultAlgorithm Algorithm         `json:"default_algorithm" yaml:"default_algorithm" mapstructure:"default_algorithm"`
	DefaultSeed      int64             `json:"default_seed" yaml:"default_seed" mapstructure:"default_seed"`
	DefaultPreset    string            `json:"default_preset" yaml:"default_preset" mapstructure:"default_preset"`
	Annealing        AnnealingSettings `json:"annealing" yaml:"annealing" mapstructure:"annealing"`
	Genetic          GeneticSettings   `json:"genetic" yaml:"genetic" mapstructure:"genetic"`

	// Logging
	LogLevel  string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`    // "debug", "info", "warn", "error"
	LogFormat string `json:"log_format" yaml:"log_format" mapstructure:"log_format"` // "console" or "json"

	// HTTP server
	ServerAddress string  `json:"server_address" yaml:"server_address" mapstructure:"server_address"`
	RateLimit     float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second, 0 = unlimited
	RateBurst     int     `json:"rate_burst" yaml:"rate_burst" mapstructure:"rate_burst"`

	// Ensemble
	EnsembleRuns    int `json:"ensemble_runs" yaml:"ensemble_runs" mapstructure:"ensemble_runs"`
	EnsembleWorkers int `json:"ensemble_workers" yaml:"ensemble_workers" mapstructure:"ensemble_workers"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultAlgorithm: defaults.Algorithm,
		DefaultSeed:      defaults.Seed,
		DefaultPreset:    "",
		Annealing:        defaults.Annealing,
		Genetic:          defaults.Genetic,
		LogLevel:         "info",
		LogFormat:        "console",
		ServerAddress:    ":8080",
		RateLimit:        5,
		RateBurst:        10,
		EnsembleRuns:     8,
		EnsembleWorkers:  4,
	}
}

// ApplyToSettings copies the default values from AppConfig into a Settings struct.
func (c AppConfig) ApplyToSettings(s *Settings) {
	if c.DefaultAlgorithm != "" {
		s.Algorithm = c.DefaultAlgorithm
	}
	s.Seed = c.DefaultSeed
	s.Annealing = c.Annealing
	s.Genetic = c.Genetic
}

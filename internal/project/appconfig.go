// Package project persists application configuration, problem files and
// custom hyperparameter presets.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/FleetPack/internal/model"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. FLEETPACK_LOG_LEVEL
// or FLEETPACK_ANNEALING_COOLING_RATE.
const EnvPrefix = "FLEETPACK"

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.fleetpack/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".fleetpack")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// SaveAppConfig persists an AppConfig to the given path as YAML.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given YAML file and applies
// environment overrides. Values absent from the file keep their defaults.
// If the file does not exist (or path is empty), it returns the defaults
// with overrides applied and no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Seed viper with every default key so nested keys can be overridden
	// from the environment.
	defaults, err := yaml.Marshal(model.DefaultAppConfig())
	if err != nil {
		return model.AppConfig{}, err
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return model.AppConfig{}, fmt.Errorf("load default config: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.MergeInConfig(); err != nil {
				return model.AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return model.AppConfig{}, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config model.AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return model.AppConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return config, nil
}

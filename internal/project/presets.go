package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/FleetPack/internal/model"
)

// ErrUnknownPreset is returned when no built-in or custom preset has the name.
var ErrUnknownPreset = errors.New("unknown preset")

// DefaultPresetsPath returns the default file path for custom presets.
func DefaultPresetsPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SaveCustomPresets saves custom presets to a JSON file.
func SaveCustomPresets(path string, presets []model.Preset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(presets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomPresets loads custom presets from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomPresets(path string) ([]model.Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Preset{}, nil
		}
		return nil, err
	}

	var presets []model.Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, err
	}

	// Loaded presets are never built-in
	for i := range presets {
		presets[i].IsBuiltIn = false
		if presets[i].Name == "" {
			return nil, fmt.Errorf("preset %d in %s has no name", i, path)
		}
	}
	return presets, nil
}

// AllPresets returns the built-in presets followed by the custom presets
// stored at path.
func AllPresets(path string) ([]model.Preset, error) {
	custom, err := LoadCustomPresets(path)
	if err != nil {
		return nil, err
	}
	return append(model.BuiltInPresets(), custom...), nil
}

// GetPreset finds a preset by name. Built-in presets shadow custom presets
// with the same name.
func GetPreset(path, name string) (model.Preset, error) {
	presets, err := AllPresets(path)
	if err != nil {
		return model.Preset{}, err
	}
	p, ok := model.FindPreset(presets, name)
	if !ok {
		return model.Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

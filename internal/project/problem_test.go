package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/FleetPack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadProblem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problems", "route.json")

	p := model.NewProblem()
	p.Name = "Tuesday"
	p.Packages = []model.Package{
		{ID: 1, X: 10, Y: 20, Weight: 3.5, Priority: 1},
		{ID: 2, X: -5, Y: 7, Weight: 1, Priority: 5},
	}
	p.Vehicles = model.UniformFleet(2, 12)
	p.Settings.Algorithm = model.AlgorithmGenetic
	p.Settings.Seed = 7

	require.NoError(t, SaveProblem(path, p))

	loaded, err := LoadProblem(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestSaveProblem_DropsAssignments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.json")

	p := model.NewProblem()
	p.Packages = []model.Package{{ID: 1, X: 1, Y: 1, Weight: 1, Priority: 1}}
	p.Vehicles = model.UniformFleet(1, 5)
	p.Vehicles[0].Packages = []*model.Package{&p.Packages[0]}

	require.NoError(t, SaveProblem(path, p))

	loaded, err := LoadProblem(path)
	require.NoError(t, err)
	assert.Empty(t, loaded.Vehicles[0].Packages)
	// The caller's problem is untouched.
	assert.Len(t, p.Vehicles[0].Packages, 1)
}

func TestLoadProblem_MissingSettingsUseDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.json")
	content := `{"name":"tiny","packages":[{"id":0,"x":1,"y":1,"weight":2,"priority":3}],"vehicles":[{"id":0,"capacity":5}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	p, err := LoadProblem(path)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), p.Settings)
	assert.Len(t, p.Packages, 1)
}

func TestLoadProblem_InvalidRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.json")
	content := `{"packages":[{"id":0,"x":1,"y":1,"weight":2,"priority":9}],"vehicles":[{"id":0,"capacity":5}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadProblem(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestLoadProblem_Errors(t *testing.T) {
	_, err := LoadProblem(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err = LoadProblem(path)
	assert.Error(t, err)
}

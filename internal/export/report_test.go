package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/piwi3910/FleetPack/internal/engine"
	"github.com/piwi3910/FleetPack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestResult creates a small two-vehicle result: vehicle 1 visits
// (3,4) then (3,0) for a closed route of 12, vehicle 2 is idle and package 9
// did not fit anywhere.
func buildTestResult() engine.Result {
	pkgs := []model.Package{
		{ID: 1, X: 3, Y: 4, Weight: 2, Priority: 1},
		{ID: 2, X: 3, Y: 0, Weight: 1, Priority: 2},
	}
	sol := model.NewSolution([]model.Vehicle{model.NewVehicle(1, 10), model.NewVehicle(2, 10)})
	sol.Vehicles[0].Packages = []*model.Package{&pkgs[0], &pkgs[1]}

	return engine.Result{
		RunID:      "run-1",
		Algorithm:  model.AlgorithmAnnealing,
		Seed:       42,
		Solution:   sol,
		Unassigned: []int{9},
		Elapsed:    1500 * time.Millisecond,
	}
}

func TestBuildReport(t *testing.T) {
	r := BuildReport(buildTestResult())

	assert.Equal(t, "run-1", r.RunID)
	assert.Equal(t, int64(42), r.Seed)
	assert.InDelta(t, 12.0, r.TotalDistance, 1e-9)
	assert.True(t, r.Valid)
	assert.Equal(t, 2, r.AssignedCount)
	assert.Equal(t, 1, r.VehiclesUsed)
	assert.Equal(t, []int{9}, r.Unassigned)
	assert.InDelta(t, 1.5, r.ElapsedSeconds, 1e-9)

	require.Len(t, r.Vehicles, 2)
	v := r.Vehicles[0]
	assert.InDelta(t, 3.0, v.Load, 1e-9)
	assert.InDelta(t, 30.0, v.Utilization, 1e-9)
	assert.InDelta(t, 12.0, v.Distance, 1e-9)
	require.Len(t, v.Stops, 2)
	assert.Equal(t, Stop{Sequence: 1, PackageID: 1, Priority: 1, Weight: 2, X: 3, Y: 4}, v.Stops[0])
	assert.Equal(t, 2, v.Stops[1].Sequence)
	assert.Equal(t, []model.Point{model.Depot, {X: 3, Y: 4}, {X: 3, Y: 0}, model.Depot}, v.Route)

	assert.Empty(t, r.Vehicles[1].Stops)
}

func TestBuildReport_NoSolution(t *testing.T) {
	r := BuildReport(engine.Result{RunID: "empty"})

	assert.NotNil(t, r.Unassigned)
	assert.NotNil(t, r.Vehicles)
	assert.Zero(t, r.TotalDistance)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, BuildReport(buildTestResult())))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "annealing", decoded["algorithm"])
	assert.InDelta(t, 12.0, decoded["total_distance"], 1e-9)
	assert.Len(t, decoded["vehicles"], 2)
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintSummary(&buf, BuildReport(buildTestResult())))
	out := buf.String()

	assert.Contains(t, out, "Total distance: 12.00")
	assert.Contains(t, out, "1:P1 2:P2")
	assert.Contains(t, out, "Unassigned packages (1): [9]")

	lines := strings.Split(out, "\n")
	idle := false
	for _, l := range lines {
		if strings.HasPrefix(l, "2 ") && strings.HasSuffix(strings.TrimSpace(l), "-") {
			idle = true
		}
	}
	assert.True(t, idle, "idle vehicle should be listed with no stops:\n%s", out)
}

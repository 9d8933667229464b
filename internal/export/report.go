// Package export turns optimization results into a presentation-neutral
// Report and writes it as JSON, Excel, PDF route sheets, QR delivery labels,
// DXF route drawings, or a plain-text summary.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/piwi3910/FleetPack/internal/engine"
	"github.com/piwi3910/FleetPack/internal/model"
)

// Stop is one delivery in a vehicle's sequence.
type Stop struct {
	Sequence  int     `json:"sequence"` // 1-based
	PackageID int     `json:"package_id"`
	Priority  int     `json:"priority"`
	Weight    float64 `json:"weight"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// VehicleReport describes one vehicle's load and route.
type VehicleReport struct {
	ID          int           `json:"id"`
	Capacity    float64       `json:"capacity"`
	Load        float64       `json:"load"`
	Utilization float64       `json:"utilization"` // percent
	Distance    float64       `json:"distance"`
	Route       []model.Point `json:"route"`
	Stops       []Stop        `json:"stops"`
}

// Report is everything a presentation layer needs from a run.
type Report struct {
	RunID          string          `json:"run_id"`
	Algorithm      model.Algorithm `json:"algorithm"`
	Seed           int64           `json:"seed"`
	TotalDistance  float64         `json:"total_distance"`
	Valid          bool            `json:"valid"`
	AssignedCount  int             `json:"assigned_count"`
	Unassigned     []int           `json:"unassigned"`
	VehiclesUsed   int             `json:"vehicles_used"`
	ElapsedSeconds float64         `json:"elapsed_seconds"`
	Vehicles       []VehicleReport `json:"vehicles"`
}

// BuildReport flattens a result into a Report.
func BuildReport(res engine.Result) Report {
	r := Report{
		RunID:          res.RunID,
		Algorithm:      res.Algorithm,
		Seed:           res.Seed,
		Unassigned:     res.Unassigned,
		ElapsedSeconds: res.Elapsed.Seconds(),
		Vehicles:       []VehicleReport{},
	}
	if r.Unassigned == nil {
		r.Unassigned = []int{}
	}
	if res.Solution == nil {
		return r
	}

	r.TotalDistance = res.Solution.TotalDistance()
	r.Valid = res.Solution.IsValid()
	r.AssignedCount = res.Solution.AssignedCount()
	r.VehiclesUsed = res.Solution.VehiclesUsed()

	for _, v := range res.Solution.Vehicles {
		vr := VehicleReport{
			ID:          v.ID,
			Capacity:    v.Capacity,
			Load:        v.CurrentLoad(),
			Utilization: v.Utilization(),
			Distance:    v.Distance(),
			Route:       v.Route(),
			Stops:       make([]Stop, 0, len(v.Packages)),
		}
		for i, p := range v.Packages {
			vr.Stops = append(vr.Stops, Stop{
				Sequence:  i + 1,
				PackageID: p.ID,
				Priority:  p.Priority,
				Weight:    p.Weight,
				X:         p.X,
				Y:         p.Y,
			})
		}
		r.Vehicles = append(r.Vehicles, vr)
	}
	return r
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ExportJSON writes the report to a JSON file.
func ExportJSON(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PrintSummary writes a human-readable summary: total distance, then each
// vehicle's load and stop sequence with priorities.
func PrintSummary(w io.Writer, r Report) error {
	fmt.Fprintf(w, "Run %s (%s, seed %d)\n", r.RunID, r.Algorithm, r.Seed)
	fmt.Fprintf(w, "Total distance: %.2f\n", r.TotalDistance)
	fmt.Fprintf(w, "Assigned: %d  Vehicles used: %d/%d\n\n", r.AssignedCount, r.VehiclesUsed, len(r.Vehicles))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VEHICLE\tLOAD\tUTIL\tDISTANCE\tSTOPS (id:priority)")
	for _, v := range r.Vehicles {
		stops := ""
		for i, s := range v.Stops {
			if i > 0 {
				stops += " "
			}
			stops += fmt.Sprintf("%d:P%d", s.PackageID, s.Priority)
		}
		if stops == "" {
			stops = "-"
		}
		fmt.Fprintf(tw, "%d\t%.2f/%.2f\t%.0f%%\t%.2f\t%s\n", v.ID, v.Load, v.Capacity, v.Utilization, v.Distance, stops)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Unassigned) > 0 {
		fmt.Fprintf(w, "\nUnassigned packages (%d): %v\n", len(r.Unassigned), r.Unassigned)
	}
	return nil
}

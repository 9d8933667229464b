package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet  = "Summary"
	vehiclesSheet = "Vehicles"
	stopsSheet    = "Stops"
)

// ExportExcel writes the report as a workbook with Summary, Vehicles and
// Stops sheets. The Stops sheet can be re-imported as a package table.
func ExportExcel(path string, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return err
	}
	for _, name := range []string{vehiclesSheet, stopsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	summary := [][]interface{}{
		{"Run ID", r.RunID},
		{"Algorithm", string(r.Algorithm)},
		{"Seed", r.Seed},
		{"Total distance", r.TotalDistance},
		{"Valid", r.Valid},
		{"Assigned packages", r.AssignedCount},
		{"Unassigned packages", len(r.Unassigned)},
		{"Vehicles used", r.VehiclesUsed},
		{"Elapsed (s)", r.ElapsedSeconds},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return err
	}

	vehicles := [][]interface{}{{"Vehicle", "Capacity", "Load", "Utilization %", "Distance", "Stops"}}
	for _, v := range r.Vehicles {
		vehicles = append(vehicles, []interface{}{v.ID, v.Capacity, v.Load, v.Utilization, v.Distance, len(v.Stops)})
	}
	if err := writeRows(f, vehiclesSheet, vehicles); err != nil {
		return err
	}

	stops := [][]interface{}{{"Vehicle", "Sequence", "ID", "X", "Y", "Weight", "Priority"}}
	for _, v := range r.Vehicles {
		for _, s := range v.Stops {
			stops = append(stops, []interface{}{v.ID, s.Sequence, s.PackageID, s.X, s.Y, s.Weight, s.Priority})
		}
	}
	if err := writeRows(f, stopsSheet, stops); err != nil {
		return err
	}

	for _, sheet := range []string{vehiclesSheet, stopsSheet} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

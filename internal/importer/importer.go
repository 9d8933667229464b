// Package importer loads delivery problems from text files, CSV and Excel
// package tables, and generates random problems. Table imports support
// automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/FleetPack/internal/model"
	"github.com/xuri/excelize/v2"
)

// defaultPriority is used when a table has no priority column or an empty cell.
const defaultPriority = 3

// ImportResult holds the results of a table import.
type ImportResult struct {
	Packages []model.Package
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ID       int
	X        int
	Y        int
	Weight   int
	Priority int
}

// headerRoles lists column roles in a fixed order so detection is deterministic.
var headerRoles = []string{"id", "x", "y", "weight", "priority"}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":       {"id", "package", "package id", "pkg", "parcel", "no", "#"},
	"x":        {"x", "x coord", "pos x", "lon", "longitude", "east", "easting"},
	"y":        {"y", "y coord", "pos y", "lat", "latitude", "north", "northing"},
	"weight":   {"weight", "w", "kg", "mass", "load", "weight (kg)"},
	"priority": {"priority", "prio", "p", "urgency", "rank"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (id, x, y, weight, priority) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	found := map[string]int{}
	for i, cell := range row {
		if role, ok := matchRole(strings.ToLower(strings.TrimSpace(cell)), found); ok {
			found[role] = i
		}
	}

	if len(found) == 0 {
		return ColumnMapping{ID: 0, X: 1, Y: 2, Weight: 3, Priority: 4}, false
	}

	col := func(role string) int {
		if i, ok := found[role]; ok {
			return i
		}
		return -1
	}
	return ColumnMapping{
		ID:       col("id"),
		X:        col("x"),
		Y:        col("y"),
		Weight:   col("weight"),
		Priority: col("priority"),
	}, true
}

// matchRole returns the first role not yet taken that lists cell as an alias.
func matchRole(cell string, taken map[string]int) (string, bool) {
	for _, role := range headerRoles {
		if _, ok := taken[role]; ok {
			continue
		}
		for _, alias := range headerAliases[role] {
			if cell == alias {
				return role, true
			}
		}
	}
	return "", false
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseFloatCell(row []string, idx int, name, rowLabel string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := parseFinite(s)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	return v, ""
}

// parseRow extracts a Package from a row using the given column mapping.
// Returns the package, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, nextID int) (model.Package, string, string) {
	var warning string

	id := nextID
	if idStr := getCell(row, mapping.ID); idStr != "" {
		v, err := strconv.Atoi(idStr)
		if err != nil || v < 0 {
			return model.Package{}, fmt.Sprintf("%s: Invalid id '%s'", rowLabel, idStr), ""
		}
		id = v
	}

	x, errMsg := parseFloatCell(row, mapping.X, "x", rowLabel)
	if errMsg != "" {
		return model.Package{}, errMsg, ""
	}
	y, errMsg := parseFloatCell(row, mapping.Y, "y", rowLabel)
	if errMsg != "" {
		return model.Package{}, errMsg, ""
	}
	weight, errMsg := parseFloatCell(row, mapping.Weight, "weight", rowLabel)
	if errMsg != "" {
		return model.Package{}, errMsg, ""
	}
	if weight <= 0 {
		return model.Package{}, fmt.Sprintf("%s: Weight must be positive", rowLabel), ""
	}

	priority := defaultPriority
	if prioStr := getCell(row, mapping.Priority); prioStr != "" {
		v, err := strconv.Atoi(prioStr)
		if err != nil || v < 1 || v > 5 {
			return model.Package{}, fmt.Sprintf("%s: Priority '%s' must be 1-5", rowLabel, prioStr), ""
		}
		priority = v
	} else {
		warning = fmt.Sprintf("%s: No priority, defaulting to %d", rowLabel, defaultPriority)
	}

	return model.Package{ID: id, X: x, Y: y, Weight: weight, Priority: priority}, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports packages from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports packages from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports packages from the first sheet of an Excel (.xlsx) file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(packageSheet(sheets))
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// packageSheet picks a sheet named "Packages" or "Stops" when the workbook has
// one (exported route workbooks keep stops on their own sheet), and the first
// sheet otherwise.
func packageSheet(sheets []string) string {
	for _, name := range sheets {
		switch strings.ToLower(name) {
		case "packages", "stops":
			return name
		}
	}
	return sheets[0]
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Packages: []model.Package{},
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.X == -1 {
			missing = append(missing, "X")
		}
		if mapping.Y == -1 {
			missing = append(missing, "Y")
		}
		if mapping.Weight == -1 {
			missing = append(missing, "Weight")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, err := strconv.ParseFloat(getCell(rows[0], mapping.X), 64); err != nil {
		// Unrecognized header: skip it but keep positional mapping
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	seen := map[int]bool{}
	nextID := 0
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		pkg, errMsg, warning := parseRow(row, mapping, rowLabel, nextID)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if seen[pkg.ID] {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Duplicate package id %d", rowLabel, pkg.ID))
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		seen[pkg.ID] = true
		if pkg.ID >= nextID {
			nextID = pkg.ID + 1
		}
		result.Packages = append(result.Packages, pkg)
	}

	return result
}

package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/FleetPack/internal/model"
)

// ErrMalformedInput is matched by every ParseError.
var ErrMalformedInput = errors.New("malformed input")

// ParseError identifies the offending line of a problem text file.
type ParseError struct {
	Line   int    // 1-based physical line number
	Text   string // the trimmed line content
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedInput
}

// LoadTextFile reads a problem from a text file; see LoadText for the format.
func LoadTextFile(path string) ([]model.Package, []model.Vehicle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()

	pkgs, fleet, err := LoadText(f)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	return pkgs, fleet, nil
}

// LoadText parses the whitespace-separated problem format:
//
//	# comment
//	<vehicle_count> <capacity>
//	<id> <x> <y> <weight> <priority>
//	...
//
// Blank lines and lines starting with '#' are ignored. Vehicles get ids
// 0..vehicle_count-1. The first malformed line aborts parsing with a *ParseError.
func LoadText(r io.Reader) ([]model.Package, []model.Vehicle, error) {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	var fleet []model.Vehicle
	pkgs := []model.Package{}
	seen := make(map[int]bool)
	haveHeader := false

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if !haveHeader {
			vehicles, err := parseHeader(fields)
			if err != nil {
				return nil, nil, &ParseError{Line: lineNum, Text: line, Reason: err.Error()}
			}
			fleet = vehicles
			haveHeader = true
			continue
		}

		p, err := parsePackageFields(fields)
		if err != nil {
			return nil, nil, &ParseError{Line: lineNum, Text: line, Reason: err.Error()}
		}
		if seen[p.ID] {
			return nil, nil, &ParseError{Line: lineNum, Text: line, Reason: fmt.Sprintf("duplicate package id %d", p.ID)}
		}
		seen[p.ID] = true
		pkgs = append(pkgs, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if !haveHeader {
		return nil, nil, &ParseError{Line: lineNum, Reason: "missing vehicle header"}
	}
	return pkgs, fleet, nil
}

func parseHeader(fields []string) ([]model.Vehicle, error) {
	if len(fields) != 2 {
		return nil, fmt.Errorf("header needs 2 fields (vehicle count, capacity), got %d", len(fields))
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid vehicle count %q", fields[0])
	}
	capacity, err := parseFinite(fields[1])
	if err != nil || capacity <= 0 {
		return nil, fmt.Errorf("invalid capacity %q", fields[1])
	}
	return model.UniformFleet(n, capacity), nil
}

func parsePackageFields(fields []string) (model.Package, error) {
	if len(fields) != 5 {
		return model.Package{}, fmt.Errorf("package needs 5 fields (id x y weight priority), got %d", len(fields))
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil || id < 0 {
		return model.Package{}, fmt.Errorf("invalid id %q", fields[0])
	}
	x, err := parseFinite(fields[1])
	if err != nil {
		return model.Package{}, fmt.Errorf("invalid x %q", fields[1])
	}
	y, err := parseFinite(fields[2])
	if err != nil {
		return model.Package{}, fmt.Errorf("invalid y %q", fields[2])
	}
	weight, err := parseFinite(fields[3])
	if err != nil {
		return model.Package{}, fmt.Errorf("invalid weight %q", fields[3])
	}
	if weight <= 0 {
		return model.Package{}, fmt.Errorf("weight must be positive")
	}
	priority, err := strconv.Atoi(fields[4])
	if err != nil {
		return model.Package{}, fmt.Errorf("invalid priority %q", fields[4])
	}
	if priority < 1 || priority > 5 {
		return model.Package{}, fmt.Errorf("priority %d must be between 1 and 5", priority)
	}
	return model.Package{ID: id, X: x, Y: y, Weight: weight, Priority: priority}, nil
}

// parseFinite parses a float and rejects NaN and infinities, which
// strconv accepts.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

// WriteText writes pkgs and the fleet in the LoadText format. The format has a
// single capacity, so the first vehicle's capacity is used for the whole fleet.
func WriteText(w io.Writer, pkgs []model.Package, fleet []model.Vehicle) error {
	capacity := 0.0
	if len(fleet) > 0 {
		capacity = fleet[0].Capacity
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# vehicles capacity\n%d %s\n", len(fleet), formatFloat(capacity))
	fmt.Fprintln(bw, "# id x y weight priority")
	for _, p := range pkgs {
		fmt.Fprintf(bw, "%d %s %s %s %d\n", p.ID, formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Weight), p.Priority)
	}
	return bw.Flush()
}

// WriteTextFile writes the problem to path.
func WriteTextFile(path string, pkgs []model.Package, fleet []model.Vehicle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteText(f, pkgs, fleet); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

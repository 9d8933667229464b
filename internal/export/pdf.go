package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/FleetPack/internal/model"
)

// routeColor represents an RGB color for a vehicle route.
type routeColor struct {
	R, G, B int
}

var routeColors = []routeColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 121, G: 85, B: 72},  // brown
	{R: 96, G: 125, B: 139}, // blue grey
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	stopRadius   = 1.2
)

// plotFrame maps problem coordinates onto the page drawing area. All vehicle
// pages share one frame so routes are comparable between pages.
type plotFrame struct {
	minX, maxY       float64
	scale            float64
	offsetX, offsetY float64
	width, height    float64
}

func newPlotFrame(r Report) plotFrame {
	minX, minY := model.Depot.X, model.Depot.Y
	maxX, maxY := minX, minY
	for _, v := range r.Vehicles {
		for _, s := range v.Stops {
			minX, maxX = math.Min(minX, s.X), math.Max(maxX, s.X)
			minY, maxY = math.Min(minY, s.Y), math.Max(maxY, s.Y)
		}
	}
	spanX := math.Max(maxX-minX, 1)
	spanY := math.Max(maxY-minY, 1)

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/spanX, drawHeight/spanY)

	f := plotFrame{minX: minX, maxY: maxY, scale: scale, width: spanX * scale, height: spanY * scale}
	f.offsetX = marginLeft + (drawWidth-f.width)/2
	f.offsetY = drawAreaTop
	return f
}

// project converts a problem point to page coordinates; y grows upward on the plot.
func (f plotFrame) project(x, y float64) (float64, float64) {
	return f.offsetX + (x-f.minX)*f.scale, f.offsetY + (f.maxY-y)*f.scale
}

// ExportPDF generates a PDF document with one route plot page per used
// vehicle, followed by a summary page with overall statistics.
func ExportPDF(path string, r Report) error {
	if len(r.Vehicles) == 0 {
		return fmt.Errorf("no vehicles to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	frame := newPlotFrame(r)

	for i, v := range r.Vehicles {
		if len(v.Stops) == 0 {
			continue
		}
		pdf.AddPage()
		renderVehiclePage(pdf, frame, v, routeColors[i%len(routeColors)])
	}

	pdf.AddPage()
	renderSummaryPage(pdf, r)

	return pdf.OutputFileAndClose(path)
}

// renderVehiclePage draws one vehicle's closed route on the current page.
func renderVehiclePage(pdf *fpdf.Fpdf, frame plotFrame, v VehicleReport, col routeColor) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Vehicle %d: %d stops, %.2f distance", v.ID, len(v.Stops), v.Distance)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Load: %.2f / %.2f | Utilization: %.1f%%", v.Load, v.Capacity, v.Utilization)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Plot background
	pdf.SetFillColor(248, 248, 248)
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.3)
	pdf.Rect(frame.offsetX, frame.offsetY, frame.width, frame.height, "FD")

	// Route legs
	pdf.SetDrawColor(col.R, col.G, col.B)
	pdf.SetLineWidth(0.6)
	for i := 1; i < len(v.Route); i++ {
		x1, y1 := frame.project(v.Route[i-1].X, v.Route[i-1].Y)
		x2, y2 := frame.project(v.Route[i].X, v.Route[i].Y)
		pdf.Line(x1, y1, x2, y2)
	}

	// Stops with sequence numbers
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.2)
	for _, s := range v.Stops {
		px, py := frame.project(s.X, s.Y)
		pdf.Circle(px, py, stopRadius, "FD")
		pdf.SetXY(px+stopRadius, py-3.5)
		pdf.CellFormat(12, 3, fmt.Sprintf("%d:#%d", s.Sequence, s.PackageID), "", 0, "L", false, 0, "")
	}

	// Depot
	dx, dy := frame.project(model.Depot.X, model.Depot.Y)
	pdf.SetFillColor(0, 0, 0)
	pdf.Rect(dx-1.5, dy-1.5, 3, 3, "F")
	pdf.SetXY(dx+2, dy)
	pdf.CellFormat(12, 3, "Depot", "", 0, "L", false, 0, "")

	drawStopsLegend(pdf, v, frame.offsetY+frame.height+5)
}

// drawStopsLegend lists the stop sequence under the plot.
func drawStopsLegend(pdf *fpdf.Fpdf, v VehicleReport, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(20, 4, "Sequence:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 22
	maxX := pageWidth - marginRight
	for _, s := range v.Stops {
		label := fmt.Sprintf("%d. #%d P%d %.2fkg", s.Sequence, s.PackageID, s.Priority, s.Weight)
		labelW := pdf.GetStringWidth(label) + 3
		if xPos+labelW > maxX {
			startY += 4
			xPos = marginLeft
		}
		pdf.SetXY(xPos, startY)
		pdf.CellFormat(labelW, 4, label, "", 0, "L", false, 0, "")
		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, r Report) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Delivery Route Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	summaryItems := []struct {
		label string
		value string
	}{
		{"Algorithm", fmt.Sprintf("%s (seed %d)", r.Algorithm, r.Seed)},
		{"Total Distance", fmt.Sprintf("%.2f", r.TotalDistance)},
		{"Packages Assigned", fmt.Sprintf("%d", r.AssignedCount)},
		{"Packages Unassigned", fmt.Sprintf("%d", len(r.Unassigned))},
		{"Vehicles Used", fmt.Sprintf("%d of %d", r.VehiclesUsed, len(r.Vehicles))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Vehicle Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{25, 40, 40, 35, 40, 35}
	headers := []string{"Vehicle", "Load", "Capacity", "Utilization", "Distance", "Stops"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, v := range r.Vehicles {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		rowData := []string{
			fmt.Sprintf("%d", v.ID),
			fmt.Sprintf("%.2f", v.Load),
			fmt.Sprintf("%.2f", v.Capacity),
			fmt.Sprintf("%.1f%%", v.Utilization),
			fmt.Sprintf("%.2f", v.Distance),
			fmt.Sprintf("%d", len(v.Stops)),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if len(r.Unassigned) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unassigned Packages", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(marginLeft+5, y)
		pdf.MultiCell(pageWidth-marginLeft-marginRight-5, 5, fmt.Sprintf("Package IDs: %v", r.Unassigned), "", "L", false)
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by FleetPack - Delivery Route Optimizer", "", 0, "C", false, 0, "")
}

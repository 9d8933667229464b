package export

import (
	"fmt"

	"github.com/piwi3910/FleetPack/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

const (
	depotLayer   = "DEPOT"
	stopRadiusMM = 0.5
	textHeight   = 0.8
)

var layerColors = []color.ColorNumber{
	color.Green, color.Blue, color.Yellow, color.Magenta, color.Cyan, color.Red,
}

// ExportDXF writes every used vehicle's closed route as a polyline of LINE
// entities on its own layer (ROUTE_<id>), with a CIRCLE and stop number at
// each delivery. The depot is marked on the DEPOT layer. Coordinates are
// written in problem units.
func ExportDXF(path string, r Report) error {
	if r.VehiclesUsed == 0 {
		return fmt.Errorf("no routes to export")
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(depotLayer, color.White, dxf.DefaultLineType, true); err != nil {
		return err
	}
	if _, err := d.Circle(model.Depot.X, model.Depot.Y, 0, stopRadiusMM*2); err != nil {
		return err
	}
	if _, err := d.Text("DEPOT", model.Depot.X+stopRadiusMM*2, model.Depot.Y, 0, textHeight); err != nil {
		return err
	}

	for i, v := range r.Vehicles {
		if len(v.Stops) == 0 {
			continue
		}
		layer := fmt.Sprintf("ROUTE_%d", v.ID)
		if _, err := d.AddLayer(layer, layerColors[i%len(layerColors)], dxf.DefaultLineType, true); err != nil {
			return err
		}
		for k := 1; k < len(v.Route); k++ {
			a, b := v.Route[k-1], v.Route[k]
			if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
				return err
			}
		}
		for _, s := range v.Stops {
			if _, err := d.Circle(s.X, s.Y, 0, stopRadiusMM); err != nil {
				return err
			}
			if _, err := d.Text(fmt.Sprintf("%d", s.Sequence), s.X+stopRadiusMM, s.Y+stopRadiusMM, 0, textHeight); err != nil {
				return err
			}
		}
	}

	return d.SaveAs(path)
}

package cli

import (
	"fmt"

	"github.com/piwi3910/FleetPack/internal/engine"
	"github.com/piwi3910/FleetPack/internal/export"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// outputFlags names the optional report files.
type outputFlags struct {
	json   string
	xlsx   string
	pdf    string
	labels string
	dxf    string
}

func (f *outputFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.json, "json", "", "Write the report as JSON to this file ('-' for stdout)")
	fs.StringVar(&f.xlsx, "xlsx", "", "Write the report as an Excel workbook")
	fs.StringVar(&f.pdf, "pdf", "", "Write route sheets as PDF")
	fs.StringVar(&f.labels, "labels", "", "Write QR delivery labels as PDF")
	fs.StringVar(&f.dxf, "dxf", "", "Write route drawings as DXF")
}

// write exports r to every requested file.
func (f *outputFlags) write(cmd *cobra.Command, g *globals, r export.Report) error {
	if f.json == "-" {
		if err := export.WriteJSON(cmd.OutOrStdout(), r); err != nil {
			return err
		}
	}

	writers := []struct {
		path  string
		kind  string
		write func(string, export.Report) error
	}{
		{f.json, "json", export.ExportJSON},
		{f.xlsx, "xlsx", export.ExportExcel},
		{f.pdf, "pdf", export.ExportPDF},
		{f.labels, "labels", export.ExportLabels},
		{f.dxf, "dxf", export.ExportDXF},
	}
	for _, w := range writers {
		if w.path == "" || w.path == "-" {
			continue
		}
		if err := w.write(w.path, r); err != nil {
			return fmt.Errorf("export %s: %w", w.kind, err)
		}
		g.log.Info().Str("format", w.kind).Str("path", w.path).Msg("report written")
	}
	return nil
}

func solveCmd(g *globals) *cobra.Command {
	var pf problemFlags
	var sf settingsFlags
	var of outputFlags
	var quiet bool

	c := &cobra.Command{
		Use:   "solve",
		Short: "Assign packages to vehicles and order each route",
		Example: `  fleetpack solve --input packages.txt --algorithm ga --seed 7
  fleetpack solve --random 50 --vehicles 5 --capacity 60 --pdf routes.pdf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, settings, err := loadRun(cmd, g, &pf, &sf)
			if err != nil {
				return err
			}

			res, err := engine.New(settings, engine.WithLogger(g.log)).Optimize(cmd.Context(), p.packages, p.fleet)
			if err != nil {
				return err
			}

			report := export.BuildReport(res)
			if !quiet && of.json != "-" {
				if err := export.PrintSummary(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			}
			return of.write(cmd, g, report)
		},
	}

	pf.register(c.Flags())
	sf.register(c.Flags())
	of.register(c.Flags())
	c.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the summary")
	return c
}

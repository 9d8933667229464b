package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/piwi3910/FleetPack/internal/engine"
	"github.com/piwi3910/FleetPack/internal/export"
	"github.com/spf13/cobra"
)

func compareCmd(g *globals) *cobra.Command {
	var pf problemFlags
	var sf settingsFlags

	c := &cobra.Command{
		Use:   "compare",
		Short: "Run the current settings against alternative algorithms and hyperparameters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, settings, err := loadRun(cmd, g, &pf, &sf)
			if err != nil {
				return err
			}

			results, err := engine.CompareScenarios(cmd.Context(), engine.BuildDefaultScenarios(settings), p.packages, p.fleet, engine.WithLogger(g.log))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCENARIO\tALGORITHM\tSEED\tDISTANCE\tASSIGNED\tUNASSIGNED\tVEHICLES\tTIME")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%d\t%d\t%d\t%s\n",
					r.Scenario.Name, r.Result.Algorithm, r.Result.Seed, r.TotalDistance,
					r.AssignedCount, r.UnassignedCount, r.VehiclesUsed, r.Result.Elapsed.Round(time.Millisecond))
			}
			return tw.Flush()
		},
	}

	pf.register(c.Flags())
	sf.register(c.Flags())
	return c
}

func ensembleCmd(g *globals) *cobra.Command {
	var pf problemFlags
	var sf settingsFlags
	var of outputFlags
	var runs, workers int

	c := &cobra.Command{
		Use:   "ensemble",
		Short: "Run independent seeds in parallel and keep the best solution",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, settings, err := loadRun(cmd, g, &pf, &sf)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("runs") {
				runs = g.app.EnsembleRuns
			}
			if !cmd.Flags().Changed("parallel") {
				workers = g.app.EnsembleWorkers
			}

			ens, err := engine.RunEnsemble(cmd.Context(), settings, p.packages, p.fleet, runs, workers, engine.WithLogger(g.log))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Runs: %d  Mean: %.2f  StdDev: %.2f  Min: %.2f  Max: %.2f\n",
				len(ens.Runs), ens.Mean, ens.StdDev, ens.Min, ens.Max)
			fmt.Fprintf(out, "Best run: #%d (seed %d)\n\n", ens.BestIndex, ens.Best.Seed)

			report := export.BuildReport(ens.Best)
			if err := export.PrintSummary(out, report); err != nil {
				return err
			}
			return of.write(cmd, g, report)
		},
	}

	pf.register(c.Flags())
	sf.register(c.Flags())
	of.register(c.Flags())
	c.Flags().IntVar(&runs, "runs", 8, "Number of independent runs (default from config)")
	c.Flags().IntVar(&workers, "parallel", 4, "Concurrent runs (default from config)")
	return c
}

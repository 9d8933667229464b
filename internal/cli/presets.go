package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/piwi3910/FleetPack/internal/project"
	"github.com/spf13/cobra"
)

func presetsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List built-in and custom hyperparameter presets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			presets, err := project.AllPresets(g.presetsPath)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tSA (T0/cooling/stop/iter)\tGA (pop/mutation/gens/workers)\tDESCRIPTION")
			for _, p := range presets {
				kind := "custom"
				if p.IsBuiltIn {
					kind = "built-in"
				}
				a, ga := p.Annealing, p.Genetic
				fmt.Fprintf(tw, "%s\t%s\t%g/%g/%g/%d\t%d/%g/%d/%d\t%s\n",
					p.Name, kind,
					a.InitialTemperature, a.CoolingRate, a.StoppingTemperature, a.IterationsPerTemperature,
					ga.PopulationSize, ga.MutationRate, ga.Generations, ga.Workers,
					p.Description)
			}
			return tw.Flush()
		},
	}
}

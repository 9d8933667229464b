package cli

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/FleetPack/internal/importer"
	"github.com/piwi3910/FleetPack/internal/model"
	"github.com/piwi3910/FleetPack/internal/project"
	"github.com/spf13/cobra"
)

func generateCmd(g *globals) *cobra.Command {
	var count, vehicles int
	var capacity float64
	var seed int64
	var output string

	c := &cobra.Command{
		Use:   "generate",
		Short: "Write a random problem (text format, or a JSON problem file for .json outputs)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 0 || vehicles < 1 || capacity <= 0 {
				return fmt.Errorf("%w: need --count >= 0, --vehicles >= 1 and --capacity > 0", model.ErrInvalidInput)
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			pkgs, fleet := importer.Generate(rand.New(rand.NewSource(seed)), count, vehicles, capacity)
			g.log.Debug().Int64("seed", seed).Int("packages", count).Msg("generated problem")

			switch {
			case output == "" || output == "-":
				return importer.WriteText(cmd.OutOrStdout(), pkgs, fleet)
			case strings.EqualFold(filepath.Ext(output), ".json"):
				p := model.NewProblem()
				p.Name = strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
				p.Packages = pkgs
				p.Vehicles = fleet
				return project.SaveProblem(output, p)
			default:
				return importer.WriteTextFile(output, pkgs, fleet)
			}
		},
	}

	c.Flags().IntVarP(&count, "count", "n", 20, "Number of packages")
	c.Flags().IntVar(&vehicles, "vehicles", 3, "Number of vehicles")
	c.Flags().Float64Var(&capacity, "capacity", 50, "Vehicle capacity")
	c.Flags().Int64Var(&seed, "seed", 0, "Random seed, 0 = from the clock")
	c.Flags().StringVarP(&output, "output", "o", "", "Output file (.txt or .json); stdout when empty")
	return c
}

func estimateCmd(g *globals) *cobra.Command {
	var pf problemFlags
	var slack float64

	c := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate how many vehicles the packages need, from weight alone",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := pf.load(0, g.log)
			if err != nil {
				return err
			}
			capacity := pf.capacity
			if capacity <= 0 && len(p.fleet) > 0 {
				capacity = p.fleet[0].Capacity
			}
			if capacity <= 0 {
				return fmt.Errorf("%w: no vehicle capacity; pass --capacity", model.ErrInvalidInput)
			}

			est := model.EstimateFleet(p.packages, capacity, slack)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total weight:       %.2f\n", est.TotalWeight)
			fmt.Fprintf(out, "Placeable weight:   %.2f\n", est.PlaceableWeight)
			fmt.Fprintf(out, "Vehicle capacity:   %.2f\n", est.Capacity)
			fmt.Fprintf(out, "Vehicles (exact):   %.2f\n", est.VehiclesExact)
			fmt.Fprintf(out, "Vehicles (minimum): %d\n", est.VehiclesMin)
			fmt.Fprintf(out, "Vehicles (+%.0f%%):    %d\n", est.SlackPercent, est.VehiclesWithSlack)
			if len(est.OversizedPackages) > 0 {
				fmt.Fprintf(out, "Oversized packages: %v\n", est.OversizedPackages)
			}
			if len(p.fleet) > 0 && len(p.fleet) < est.VehiclesMin {
				g.log.Warn().Int("fleet", len(p.fleet)).Int("needed", est.VehiclesMin).Msg("fleet too small to carry every package")
			}
			return nil
		},
	}

	pf.register(c.Flags())
	c.Flags().Float64Var(&slack, "slack", 10, "Extra capacity margin in percent")
	return c
}

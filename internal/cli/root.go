// Package cli implements the fleetpack command line.
package cli

import (
	"os"

	"github.com/piwi3910/FleetPack/internal/logging"
	"github.com/piwi3910/FleetPack/internal/model"
	"github.com/piwi3910/FleetPack/internal/project"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// globals is the state shared by every subcommand once the root pre-run has
// loaded configuration and set up logging.
type globals struct {
	configPath  string
	presetsPath string
	logLevel    string
	logFormat   string

	app model.AppConfig
	log zerolog.Logger
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:          "fleetpack",
		Short:        "FleetPack: capacitated delivery route optimizer (simulated annealing and genetic search)",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app, err := project.LoadAppConfig(g.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				app.LogLevel = g.logLevel
			}
			if cmd.Flags().Changed("log-format") {
				app.LogFormat = g.logFormat
			}

			logger, err := logging.Setup(app.LogLevel, app.LogFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			g.app = app
			g.log = logger
			g.log.Debug().Str("config", g.configPath).Msg("configuration loaded")
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", project.DefaultConfigPath(), "YAML config file (FLEETPACK_* env vars override it)")
	cmd.PersistentFlags().StringVar(&g.presetsPath, "presets-file", project.DefaultPresetsPath(), "JSON file with custom presets")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "console", "Log format: console|json")

	cmd.AddCommand(
		solveCmd(g),
		compareCmd(g),
		ensembleCmd(g),
		generateCmd(g),
		estimateCmd(g),
		presetsCmd(g),
		serveCmd(g),
	)
	return cmd
}

package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/FleetPack/internal/api"
	"github.com/spf13/cobra"
)

func serveCmd(g *globals) *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the optimizer over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if g.app.LogLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			config := api.ConfigFromApp(g.app, g.presetsPath)
			if cmd.Flags().Changed("addr") {
				config.Address = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return api.NewServer(config, g.log).Run(ctx)
		},
	}

	c.Flags().StringVar(&addr, "addr", ":8080", "Listen address (default from config)")
	return c
}

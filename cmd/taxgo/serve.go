package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/taxgo/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators as a JSON HTTP API",
		Long: `Serve the calculators over HTTP.

Endpoints:
  POST /api/v1/{liability,compare,schedule-d,state-tax,projection,plan,sensitivity}
  GET  /api/v1/rules/:year
  GET  /api/v1/states
  GET  /healthz
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := serverConfig(a)
			gin.SetMode(gin.ReleaseMode)
			srv := server.New(cfg, a.registry, a.logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("starting server", zap.String("addr", cfg.Addr), zap.Bool("metrics", cfg.EnableMetrics))
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				if err != nil {
					a.logger.Error("server failed to start", zap.Error(err))
				}
				return err
			case <-ctx.Done():
				a.logger.Info("shutting down server")
				return srv.Stop(context.Background())
			}
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	cmd.Flags().Bool("metrics", true, "Serve prometheus metrics on /metrics")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = a.v.BindPFlag("server.enable_metrics", cmd.Flags().Lookup("metrics"))
	return cmd
}

// serverConfig merges the settings file, TAXGO_SERVER_* variables and the
// serve flags.
func serverConfig(a *app) server.Config {
	cfg := server.DefaultConfig()
	cfg.DefaultTaxYear = a.settings.TaxYear
	if a.settings.Server.Addr != "" {
		cfg.Addr = a.settings.Server.Addr
	}
	cfg.EnableMetrics = a.settings.Server.EnableMetrics
	return cfg
}

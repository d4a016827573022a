package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/qfilter/internal/metrics"
	"github.com/ppiankov/qfilter/internal/server"
)

func newServeCmd(o *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the filter editor over HTTP",
		Long: `Serve exposes resolve, set-type, toggle and sidebar as JSON endpoints:

  POST /api/resolve   {"query": "..."}
  POST /api/type      {"query": "...", "type": "commits"}
  POST /api/toggle    {"query": "...", "filter": "lang:go", "section": "lang"}
  POST /api/sidebar   {"query": "...", "matches": [...], "filters": [...]}
  GET  /healthz
  GET  /metrics       (when server.metrics is enabled)

Requests are rate limited per client IP. The server stops gracefully on
SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := o.cfg.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			var m *metrics.Metrics
			if cfg.Metrics {
				m = metrics.New()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			o.logger.Info("starting server",
				zap.String("addr", cfg.Addr),
				zap.Float64("requests_per_sec", cfg.RequestsPerSec),
				zap.Bool("metrics", cfg.Metrics),
				zap.Bool("cache", o.cfg.Cache.Enabled))
			return server.New(cfg, o.editor, m, o.logger).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

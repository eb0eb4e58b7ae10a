package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pable/go-quiz-metrics/internal/api"
	"github.com/pable/go-quiz-metrics/pkg/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <ref>",
	Short: "Serve a dataset's views over HTTP",
	Long: `Serve read-only JSON views of one dataset:

  GET /healthz
  GET /leaderboard?metric=&order=&limit=
  GET /speed?min_samples=&limit=
  GET /accuracy?limit=
  GET /difficulty
  GET /overview
  GET /players
  GET /players/{name}
  GET /metrics          Prometheus exposition`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr
	}

	ds, rec, err := resolveRef(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	log := logger.Named("serve")
	if rec != nil {
		log = log.With(logger.String("hash", rec.Hash))
	}

	srv := api.New(ds,
		api.WithLogger(log),
		api.WithMetrics(metricsManager),
		api.WithLimits(api.Limits{
			DefaultLimit: cfg.DefaultLimit,
			MaxLimit:     cfg.MaxLimit,
			MinSamples:   cfg.MinSamples,
			RecentWindow: cfg.RecentWindow,
		}),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, addr)
}

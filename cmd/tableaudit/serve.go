package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/auditlab-io/tableaudit/pkg/logging"
	"github.com/auditlab-io/tableaudit/pkg/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the audit HTTP service",
		Long: `Serve the audit engine over HTTP. POST a CSV upload to /api/v1/analyze to
get a JSON report; Prometheus metrics are exposed on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadThresholds()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := logging.Setup(v.GetString("log-level"))
			return server.New(v.GetString("addr"), cfg, logger).Run(ctx)
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	_ = v.BindPFlag("addr", cmd.Flags().Lookup("addr"))

	return cmd
}

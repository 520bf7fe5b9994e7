package cmd

import (
	"os/signal"
	"syscall"

	"stockdash/internal/app"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long:  `Runs the dashboard and ingestion API. Ctrl+C drains in-flight ingestions and exits.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}
	defer a.Close()

	if err := a.Serve(ctx); err != nil {
		log.Error("server failed", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}

// Package cmd holds the stockdash CLI commands.
package cmd

import (
	"fmt"

	"stockdash/config"
	"stockdash/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configDir string
	verbose   bool

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stockdash",
	Short: "Stock snapshot dashboard",
	Long: `stockdash registers ticker symbols, stores snapshots of their
financial metrics and serves a filterable dashboard.

Commands:
    serve      run the HTTP server
    fetch      fetch and store snapshots for symbols now
    migrate    create the database and table`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directory containing config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(migrateCmd)
}

// initConfig loads viper config and builds the zap logger.
func initConfig() error {
	var err error
	cfg, err = config.Load(configDir)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	log, err = logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	return nil
}

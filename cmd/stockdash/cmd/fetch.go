package cmd

import (
	"context"
	"errors"
	"fmt"

	"stockdash/internal/app"
	"stockdash/internal/stock"
	"stockdash/pkg/yahoo"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch SYMBOL...",
	Short: "Fetch and store snapshots now",
	Long: `Validates each symbol and stores one snapshot for it synchronously,
the same way POST /stocks does in the background.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	failed := 0
	for _, symbol := range args {
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Ingest.Timeout)
		snap, err := fetchOne(ctx, a, symbol)
		cancel()

		switch {
		case errors.Is(err, yahoo.ErrSymbolNotFound):
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s symbol doesnt exist\n", symbol)
			failed++
		case err != nil:
			log.Warn("fetch failed", zap.String("symbol", symbol), zap.Error(err))
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s failed: %v\n", symbol, err)
			failed++
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s stored id=%d price=%.2f dividend_yield=%.2f\n",
				symbol, snap.ID, snap.Price, snap.DividendYield)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d symbols failed", failed, len(args))
	}
	return nil
}

func fetchOne(ctx context.Context, a *app.App, symbol string) (*stock.Snapshot, error) {
	if err := a.Ingest.Validate(ctx, symbol); err != nil {
		return nil, err
	}
	return a.Ingest.FetchAndStore(ctx, symbol)
}

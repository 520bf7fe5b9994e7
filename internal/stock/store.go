package stock

import "context"

// Store is the append-only snapshot store shared by ingestion and the dashboard.
type Store interface {
	InsertStock(ctx context.Context, s *Snapshot) error
	ListStocks(ctx context.Context, f Filter) ([]Snapshot, error)
	// CountStocks counts the rows for symbol, or all rows when symbol is empty.
	CountStocks(ctx context.Context, symbol string) (int64, error)
	IsHealthy(ctx context.Context) bool
	Close() error
}

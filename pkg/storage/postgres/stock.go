package postgres

import (
	"context"
	"fmt"

	"stockdash/internal/stock"

	"gorm.io/gorm"
)

// InsertStock appends a snapshot row in a single add-then-commit.
// ID and RecordedAt are copied back onto s.
func (p *PostgresClient) InsertStock(ctx context.Context, s *stock.Snapshot) error {
	record := ToStockRecord(s)

	if err := p.DB.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("insert stock %s: %w", s.Symbol, err)
	}

	s.ID = record.ID
	s.RecordedAt = record.RecordedAt
	return nil
}

// ListStocks returns every row matching f, oldest first.
func (p *PostgresClient) ListStocks(ctx context.Context, f stock.Filter) ([]stock.Snapshot, error) {
	var records []StockRecord
	err := applyFilter(p.DB.WithContext(ctx).Model(&StockRecord{}), f).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}

	out := make([]stock.Snapshot, len(records))
	for i, r := range records {
		out[i] = r.Snapshot()
	}
	return out, nil
}

// CountStocks returns the number of stored rows for symbol, or all rows when symbol is empty.
func (p *PostgresClient) CountStocks(ctx context.Context, symbol string) (int64, error) {
	var n int64
	q := p.DB.WithContext(ctx).Model(&StockRecord{})
	if symbol != "" {
		q = q.Where("symbol = ?", symbol)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count stocks: %w", err)
	}
	return n, nil
}

// applyFilter appends one WHERE clause per active predicate.
func applyFilter(q *gorm.DB, f stock.Filter) *gorm.DB {
	if f.IsEmpty() {
		return q
	}
	if f.DividendYield != nil {
		q = q.Where("dividend_yield > ?", *f.DividendYield)
	}
	if f.ForwardPE != nil {
		q = q.Where("forward_pe < ?", *f.ForwardPE)
	}
	if f.MA50 {
		q = q.Where("price > ma50")
	}
	if f.MA200 {
		q = q.Where("price > ma200")
	}
	return q
}

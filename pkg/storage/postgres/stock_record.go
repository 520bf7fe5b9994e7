package postgres

import (
	"time"

	"stockdash/internal/stock"
)

// StockRecord is one fetched snapshot stored in the database.
// Rows are append-only; symbol is deliberately not unique.
type StockRecord struct {
	ID uint `gorm:"primaryKey"`

	Symbol string `gorm:"column:symbol;type:text;index:idx_stocks_symbol"`

	DividendYield float64 `gorm:"column:dividend_yield;type:double precision"`
	DividendRate  float64 `gorm:"column:dividend_rate;type:double precision"`
	ForwardEPS    float64 `gorm:"column:forward_eps;type:double precision"`
	ForwardPE     float64 `gorm:"column:forward_pe;type:double precision"`
	Price         float64 `gorm:"column:price;type:double precision"`
	MA50          float64 `gorm:"column:ma50;type:double precision"`
	MA200         float64 `gorm:"column:ma200;type:double precision"`
	PEGRatio      float64 `gorm:"column:peg_ratio;type:double precision"`
	PayoutRatio   float64 `gorm:"column:payout_ratio;type:double precision"`

	RecordedAt time.Time `gorm:"column:recorded_at;autoCreateTime"`
}

// TableName overrides the default table name for GORM.
func (StockRecord) TableName() string {
	return "stocks"
}

// ToStockRecord converts a domain snapshot into a row for insertion.
func ToStockRecord(s *stock.Snapshot) *StockRecord {
	return &StockRecord{
		ID:            s.ID,
		Symbol:        s.Symbol,
		DividendYield: s.DividendYield,
		DividendRate:  s.DividendRate,
		ForwardEPS:    s.ForwardEPS,
		ForwardPE:     s.ForwardPE,
		Price:         s.Price,
		MA50:          s.MA50,
		MA200:         s.MA200,
		PEGRatio:      s.PEGRatio,
		PayoutRatio:   s.PayoutRatio,
		RecordedAt:    s.RecordedAt,
	}
}

// Snapshot converts the row back into the domain type.
func (r StockRecord) Snapshot() stock.Snapshot {
	return stock.Snapshot{
		ID:            r.ID,
		Symbol:        r.Symbol,
		DividendYield: r.DividendYield,
		DividendRate:  r.DividendRate,
		ForwardEPS:    r.ForwardEPS,
		ForwardPE:     r.ForwardPE,
		Price:         r.Price,
		MA50:          r.MA50,
		MA200:         r.MA200,
		PEGRatio:      r.PEGRatio,
		PayoutRatio:   r.PayoutRatio,
		RecordedAt:    r.RecordedAt,
	}
}

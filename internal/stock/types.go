package stock

import (
	"time"

	"stockdash/pkg/yahoo"

	"github.com/shopspring/decimal"
)

// Snapshot is one stored record of a stock's metrics at fetch time.
type Snapshot struct {
	ID            uint      `json:"id"`
	Symbol        string    `json:"symbol"`
	DividendYield float64   `json:"dividend_yield"` // percent, upstream fraction x 100
	DividendRate  float64   `json:"dividend_rate"`  // upstream value x 100
	ForwardEPS    float64   `json:"forward_eps"`
	ForwardPE     float64   `json:"forward_pe"`
	Price         float64   `json:"price"` // previous close
	MA50          float64   `json:"ma50"`
	MA200         float64   `json:"ma200"`
	PEGRatio      float64   `json:"peg_ratio"`
	PayoutRatio   float64   `json:"payout_ratio"`
	RecordedAt    time.Time `json:"recorded_at"`
}

var hundred = decimal.NewFromInt(100)

// Percent scales an upstream fraction to a percentage without float drift
// (0.07 becomes 7, not 7.000000000000001).
func Percent(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Mul(hundred).Float64()
	return f
}

// FromFields builds a Snapshot from a gateway field set. It fails with a
// *yahoo.MissingFieldError when any required field is absent.
func FromFields(fields yahoo.FieldSet) (*Snapshot, error) {
	v, err := fields.Require(yahoo.SnapshotFields...)
	if err != nil {
		return nil, err
	}

	// order follows yahoo.SnapshotFields
	return &Snapshot{
		Symbol:        fields.Symbol,
		DividendYield: Percent(v[0]),
		DividendRate:  Percent(v[1]),
		ForwardEPS:    v[2],
		ForwardPE:     v[3],
		Price:         v[4],
		MA50:          v[5],
		MA200:         v[6],
		PEGRatio:      v[7],
		PayoutRatio:   v[8],
	}, nil
}

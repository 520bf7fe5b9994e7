package yahoo

import (
	"errors"
	"fmt"
)

// Field names as they appear in the quoteSummary modules.
const (
	FieldPreviousClose        = "previousClose"
	FieldDividendYield        = "dividendYield"
	FieldDividendRate         = "dividendRate"
	FieldForwardEPS           = "forwardEps"
	FieldForwardPE            = "forwardPE"
	FieldFiftyDayAverage      = "fiftyDayAverage"
	FieldTwoHundredDayAverage = "twoHundredDayAverage"
	FieldPEGRatio             = "pegRatio"
	FieldPayoutRatio          = "payoutRatio"
)

// SnapshotFields lists every field a stored snapshot needs.
var SnapshotFields = []string{
	FieldDividendYield,
	FieldDividendRate,
	FieldForwardEPS,
	FieldForwardPE,
	FieldPreviousClose,
	FieldFiftyDayAverage,
	FieldTwoHundredDayAverage,
	FieldPEGRatio,
	FieldPayoutRatio,
}

var (
	// ErrSymbolNotFound is returned when the provider does not know the ticker.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrMissingField matches any *MissingFieldError.
	ErrMissingField = errors.New("missing field")
)

// MissingFieldError reports a field that was absent or null upstream.
type MissingFieldError struct {
	Symbol string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: field %q missing from quote", e.Symbol, e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// FieldSet is a flattened view of the numeric fields of a quote.
type FieldSet struct {
	Symbol string
	Values map[string]float64
}

// Get returns the value for name and whether it was present.
func (f FieldSet) Get(name string) (float64, bool) {
	v, ok := f.Values[name]
	return v, ok
}

// Require returns the values for names in order, or a *MissingFieldError for
// the first one that is absent.
func (f FieldSet) Require(names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		v, ok := f.Get(name)
		if !ok {
			return nil, &MissingFieldError{Symbol: f.Symbol, Field: name}
		}
		out[i] = v
	}
	return out, nil
}

package stock

import (
	"fmt"
	"net/url"
	"strconv"
)

// Query parameter names understood by the dashboard.
const (
	ParamDividendYield = "dividend_yield"
	ParamForwardPE     = "forward_pe"
	ParamMA50          = "ma50"
	ParamMA200         = "ma200"
)

// Filter is the AND-combination of optional dashboard predicates.
// A nil threshold or false flag imposes no constraint.
type Filter struct {
	DividendYield *float64 // dividend_yield > v
	ForwardPE     *float64 // forward_pe < v
	MA50          bool     // price > ma50
	MA200         bool     // price > ma200
}

// FilterError reports a query parameter that could not be parsed.
type FilterError struct {
	Param string
	Value string
	Err   error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Param, e.Value, e.Err)
}

func (e *FilterError) Unwrap() error { return e.Err }

// ParseFilter reads the dashboard filters from query values. A parameter
// applies only when it has a non-empty value; the value of ma50 and ma200 is
// otherwise ignored.
func ParseFilter(q url.Values) (Filter, error) {
	var f Filter

	for _, p := range []struct {
		name string
		dst  **float64
	}{
		{ParamDividendYield, &f.DividendYield},
		{ParamForwardPE, &f.ForwardPE},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Filter{}, &FilterError{Param: p.name, Value: raw, Err: err}
		}
		*p.dst = &v
	}

	f.MA50 = q.Get(ParamMA50) != ""
	f.MA200 = q.Get(ParamMA200) != ""

	return f, nil
}

// IsEmpty reports whether the filter matches every row.
func (f Filter) IsEmpty() bool {
	return f.DividendYield == nil && f.ForwardPE == nil && !f.MA50 && !f.MA200
}

// Match evaluates the filter against a single snapshot.
func (f Filter) Match(s Snapshot) bool {
	if f.DividendYield != nil && !(s.DividendYield > *f.DividendYield) {
		return false
	}
	if f.ForwardPE != nil && !(s.ForwardPE < *f.ForwardPE) {
		return false
	}
	if f.MA50 && !(s.Price > s.MA50) {
		return false
	}
	if f.MA200 && !(s.Price > s.MA200) {
		return false
	}
	return true
}

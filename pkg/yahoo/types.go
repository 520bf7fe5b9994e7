package yahoo

import (
	"encoding/json"
	"strings"
)

// QuoteSummaryResponse is the envelope returned by /v10/finance/quoteSummary.
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]map[string]json.RawMessage `json:"result"` // module name -> field name -> value
		Error  *APIError                               `json:"error"`
	} `json:"quoteSummary"`
}

// APIError is the error object Yahoo embeds in the envelope.
type APIError struct {
	Code        string `json:"code"`        // e.g. "Not Found", "Unauthorized"
	Description string `json:"description"` // e.g. "Quote not found for ticker symbol: ZZZZ"
}

func (e *APIError) notFound() bool {
	return strings.EqualFold(e.Code, "Not Found")
}

// formattedValue is how most numeric leaves are encoded: {"raw": 0.02, "fmt": "2.00%"}.
// Null values come back as an empty object.
type formattedValue struct {
	Raw *float64 `json:"raw"`
}

// parseValue extracts a number from a quoteSummary leaf. It accepts both
// {"raw": n} objects and bare numbers.
func parseValue(raw json.RawMessage) (float64, bool) {
	var fv formattedValue
	if err := json.Unmarshal(raw, &fv); err == nil {
		if fv.Raw == nil {
			return 0, false
		}
		return *fv.Raw, true
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	return 0, false
}

// flatten merges the numeric leaves of the given modules into one map.
// Modules are visited in order and the first occurrence of a field wins.
func flatten(result map[string]map[string]json.RawMessage, modules []string) map[string]float64 {
	values := make(map[string]float64)
	for _, module := range modules {
		for name, raw := range result[module] {
			if _, seen := values[name]; seen {
				continue
			}
			if v, ok := parseValue(raw); ok {
				values[name] = v
			}
		}
	}
	return values
}

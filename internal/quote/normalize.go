package quote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// Field names providers use for the last price, in order of preference.
var priceFields = []string{"close", "price", "last", "regularMarketPrice", "c"}

// Field names providers use for the day's percent change, in order of preference.
var percentFields = []string{"percent_change", "change_percent", "percentChange", "change", "dp"}

// Field names that mark a provider error response when no price is present.
var errorFields = []string{"code", "message", "Note", "Error Message"}

// Normalize converts a provider payload into the canonical Quote for symbol.
//
// The rules are:
//   - a payload that is not a JSON object is malformed
//   - without any price field, a recognizable error indicator yields ErrQuoteProvider
//     carrying the provider's message, anything else is malformed
//   - a price field whose value does not parse yields a quote with an invalid Close
//   - a missing or unparsable percent change is zero
func Normalize(symbol string, payload []byte, asOf time.Time) (model.Quote, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil || fields == nil {
		return model.Quote{}, fmt.Errorf("%w: not a JSON object", apperrors.ErrMalformedQuote)
	}

	priceRaw, hasPrice := firstPresent(fields, priceFields)
	if !hasPrice {
		if msg, ok := providerError(fields); ok {
			return model.Quote{}, fmt.Errorf("%w: %s", apperrors.ErrQuoteProvider, msg)
		}
		return model.Quote{}, fmt.Errorf("%w: no price field", apperrors.ErrMalformedQuote)
	}

	q := model.Quote{Symbol: symbol, AsOf: asOf}
	if price, ok := parseDecimal(priceRaw); ok {
		q.Close = decimal.NewNullDecimal(price)
	}
	if pctRaw, ok := firstPresent(fields, percentFields); ok {
		if pct, ok := parseDecimal(pctRaw); ok {
			q.PercentChange = pct
		}
	}
	return q, nil
}

// firstPresent returns the first field of names that is present and not JSON null.
// A null price counts as absent, so a payload whose only price is null is malformed
// rather than a quote with an unknown close.
func firstPresent(fields map[string]json.RawMessage, names []string) (json.RawMessage, bool) {
	for _, name := range names {
		if v, ok := fields[name]; ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return v, true
		}
	}
	return nil, false
}

// providerError reports whether the payload carries an error indicator and returns its message.
func providerError(fields map[string]json.RawMessage) (string, bool) {
	found := false
	if status, ok := fields["status"]; ok {
		var s string
		if json.Unmarshal(status, &s) == nil && strings.EqualFold(s, "error") {
			found = true
		}
	}
	for _, name := range errorFields {
		if v, ok := fields[name]; ok && isTruthy(v) {
			found = true
			break
		}
	}
	if !found {
		return "", false
	}
	for _, name := range []string{"message", "Note", "Error Message"} {
		var s string
		if v, ok := fields[name]; ok && json.Unmarshal(v, &s) == nil && s != "" {
			return s, true
		}
	}
	return "quote unavailable, check API key or rate limit", true
}

// isTruthy treats null, false, 0 and "" as absent.
func isTruthy(v json.RawMessage) bool {
	switch strings.TrimSpace(string(v)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

// parseDecimal accepts a JSON number or a numeric string, tolerating a trailing '%'.
func parseDecimal(v json.RawMessage) (decimal.Decimal, bool) {
	text := strings.TrimSpace(string(v))
	var s string
	if json.Unmarshal(v, &s) == nil {
		text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

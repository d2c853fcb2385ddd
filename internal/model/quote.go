package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the canonical latest price and percent change for a symbol.
// Close is invalid when the provider returned a price field that could not be parsed.
type Quote struct {
	Symbol        string              `json:"symbol"`
	Close         decimal.NullDecimal `json:"close"`
	PercentChange decimal.Decimal     `json:"percentChange"`
	AsOf          time.Time           `json:"asOf"`
}

// Price returns the close price, or zero when it is unknown.
func (q Quote) Price() decimal.Decimal {
	if !q.Close.Valid {
		return decimal.Zero
	}
	return q.Close.Decimal
}

// SparkPoint is one value of a sparkline series, oldest first.
type SparkPoint struct {
	Value decimal.Decimal `json:"value"`
}

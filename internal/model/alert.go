package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceAlert is a user-defined target price for a symbol, persisted locally.
type PriceAlert struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Target    decimal.Decimal `json:"target"`
	CreatedAt time.Time       `json:"createdAt"`
}

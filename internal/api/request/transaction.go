package request

import "github.com/shopspring/decimal"

// TradeRequest is the body of POST /api/transactions/{side}.
type TradeRequest struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// TopUpRequest is the body of POST /api/users/topup.
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
)

// TradeRequest is the body of a simulated buy or sell order.
type TradeRequest struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// TopUpRequest is the body of a balance top-up.
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Buy submits a simulated buy order. The backend owns all transactional guarantees.
//
// Endpoint: POST /transactions/buy
func (c *Client) Buy(ctx context.Context, req TradeRequest) (json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodPost, "/transactions/buy", nil, req)
	if err != nil {
		return nil, err
	}
	return raw(data), nil
}

// Sell submits a simulated sell order.
//
// Endpoint: POST /transactions/sell
func (c *Client) Sell(ctx context.Context, req TradeRequest) (json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodPost, "/transactions/sell", nil, req)
	if err != nil {
		return nil, err
	}
	return raw(data), nil
}

// TopUp adds simulated cash to the user's balance.
//
// Endpoint: POST /users/topup
func (c *Client) TopUp(ctx context.Context, req TopUpRequest) (json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodPost, "/users/topup", nil, req)
	if err != nil {
		return nil, err
	}
	return raw(data), nil
}

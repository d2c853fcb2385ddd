package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// Holdings fetches the authenticated user's holdings.
//
// Endpoint: GET /holdings
func (c *Client) Holdings(ctx context.Context) ([]model.Holding, error) {
	holdings := []model.Holding{}
	if err := c.getJSON(ctx, "/holdings", nil, &holdings); err != nil {
		return nil, err
	}
	return holdings, nil
}

// Holding fetches the user's holding for a single symbol.
// Returns apperrors.ErrHoldingNotFound when the backend answers 404.
//
// Endpoint: GET /holdings/{symbol}
func (c *Client) Holding(ctx context.Context, symbol string) (model.Holding, error) {
	var holding model.Holding
	err := c.getJSON(ctx, "/holdings/"+escape(symbol), nil, &holding)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return model.Holding{}, fmt.Errorf("%w: %s", apperrors.ErrHoldingNotFound, symbol)
	}
	if err != nil {
		return model.Holding{}, err
	}
	return holding, nil
}

// SharedHoldings fetches another user's holdings through their read-only share link.
//
// Endpoint: GET /holdings/shared/{userId}
func (c *Client) SharedHoldings(ctx context.Context, userID string) ([]model.Holding, error) {
	holdings := []model.Holding{}
	if err := c.getJSON(ctx, "/holdings/shared/"+escape(userID), nil, &holdings); err != nil {
		return nil, err
	}
	return holdings, nil
}

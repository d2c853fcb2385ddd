package backend

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// Watchlists fetches all watchlists of the user.
//
// Endpoint: GET /watchlists
func (c *Client) Watchlists(ctx context.Context) ([]model.Watchlist, error) {
	watchlists := []model.Watchlist{}
	if err := c.getJSON(ctx, "/watchlists", nil, &watchlists); err != nil {
		return nil, err
	}
	return watchlists, nil
}

// CreateWatchlist creates an empty watchlist.
//
// Endpoint: POST /watchlists
func (c *Client) CreateWatchlist(ctx context.Context, name string) (model.Watchlist, error) {
	data, err := c.do(ctx, http.MethodPost, "/watchlists", nil, map[string]string{"name": name})
	if err != nil {
		return model.Watchlist{}, err
	}
	return decodeWatchlist(data)
}

// DeleteWatchlist deletes a watchlist.
//
// Endpoint: DELETE /watchlists/{id}
func (c *Client) DeleteWatchlist(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, watchlistPath(id), nil, nil)
	return err
}

// AddWatchlistSymbol appends a symbol to a watchlist and returns the updated watchlist.
//
// Endpoint: POST /watchlists/{id}/stocks/{symbol}
func (c *Client) AddWatchlistSymbol(ctx context.Context, id int64, symbol string) (model.Watchlist, error) {
	data, err := c.do(ctx, http.MethodPost, watchlistPath(id)+"/stocks/"+escape(symbol), nil, nil)
	if err != nil {
		return model.Watchlist{}, err
	}
	return decodeWatchlist(data)
}

// RemoveWatchlistSymbol removes a symbol from a watchlist and returns the updated watchlist.
//
// Endpoint: DELETE /watchlists/{id}/stocks/{symbol}
func (c *Client) RemoveWatchlistSymbol(ctx context.Context, id int64, symbol string) (model.Watchlist, error) {
	data, err := c.do(ctx, http.MethodDelete, watchlistPath(id)+"/stocks/"+escape(symbol), nil, nil)
	if err != nil {
		return model.Watchlist{}, err
	}
	return decodeWatchlist(data)
}

func watchlistPath(id int64) string {
	return "/watchlists/" + strconv.FormatInt(id, 10)
}

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// SeriesValue is one bar of a historical series. Providers send numbers as strings.
type SeriesValue struct {
	Datetime string          `json:"datetime"`
	Close    decimal.Decimal `json:"close"`
}

// Series is the historical series returned by /stocks/{symbol}/data, newest value first.
type Series struct {
	Values []SeriesValue `json:"values"`
}

// Mover is one entry of the top movers lists.
type Mover struct {
	Ticker           string `json:"ticker"`
	Price            string `json:"price"`
	ChangeAmount     string `json:"change_amount"`
	ChangePercentage string `json:"change_percentage"`
}

// TopMovers is the top gainers/losers payload.
type TopMovers struct {
	TopGainers []Mover `json:"top_gainers"`
	TopLosers  []Mover `json:"top_losers"`
}

// QuotePayload returns the provider-specific quote payload for symbol without interpreting it.
// Normalization into model.Quote is the quote gateway's job.
//
// Endpoint: GET /stocks/{symbol}/quote
func (c *Client) QuotePayload(ctx context.Context, symbol string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/stocks/"+escape(symbol)+"/quote", nil, nil)
}

// StockSeries fetches the historical series for symbol at the given interval (e.g. "1day").
//
// Endpoint: GET /stocks/{symbol}/data?interval={interval}
func (c *Client) StockSeries(ctx context.Context, symbol, interval string) (Series, error) {
	var series Series
	query := url.Values{"interval": []string{interval}}
	if err := c.getJSON(ctx, "/stocks/"+escape(symbol)+"/data", query, &series); err != nil {
		return Series{}, err
	}
	return series, nil
}

// TopMovers fetches the day's top gainers and losers.
//
// Endpoint: GET /stocks/top-movers
func (c *Client) TopMovers(ctx context.Context) (TopMovers, error) {
	var movers TopMovers
	if err := c.getJSON(ctx, "/stocks/top-movers", nil, &movers); err != nil {
		return TopMovers{}, err
	}
	return movers, nil
}

// SearchStocks forwards a symbol search.
//
// Endpoint: GET /stocks/search?symbol={query}
func (c *Client) SearchStocks(ctx context.Context, query string) (json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodGet, "/stocks/search", url.Values{"symbol": []string{query}}, nil)
	if err != nil {
		return nil, err
	}
	return raw(data), nil
}

// MarketNews forwards the general market news feed.
//
// Endpoint: GET /stocks/news
func (c *Client) MarketNews(ctx context.Context) (json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodGet, "/stocks/news", nil, nil)
	if err != nil {
		return nil, err
	}
	return raw(data), nil
}

// StockDetailKinds lists the per-symbol detail documents the backend serves.
var StockDetailKinds = map[string]bool{
	"fundamentals": true,
	"financials":   true,
	"news":         true,
}

// StockDetail forwards one of the per-symbol detail documents listed in StockDetailKinds.
//
// Endpoint: GET /stocks/{symbol}/{fundamentals|financials|news}
func (c *Client) StockDetail(ctx context.Context, symbol, kind string) (json.RawMessage, error) {
	kind = strings.ToLower(kind)
	if !StockDetailKinds[kind] {
		return nil, fmt.Errorf("unsupported stock detail %q", kind)
	}
	data, err := c.do(ctx, http.MethodGet, "/stocks/"+escape(symbol)+"/"+kind, nil, nil)
	if err != nil {
		return nil, err
	}
	return raw(data), nil
}

func decodeWatchlist(data []byte) (model.Watchlist, error) {
	var watchlist model.Watchlist
	if len(strings.TrimSpace(string(data))) == 0 {
		return watchlist, nil
	}
	if err := json.Unmarshal(data, &watchlist); err != nil {
		return model.Watchlist{}, fmt.Errorf("failed to decode watchlist: %w", err)
	}
	return watchlist, nil
}

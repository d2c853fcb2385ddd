package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/backend"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/heatmap"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quotesync"
)

const (
	// MoversPerSide is the number of gainers and losers shown on the movers heatmap.
	MoversPerSide = 6
	// SparklineLength is the number of closes in a sparkline.
	SparklineLength = 12
	// MaxCompareSymbols caps a comparison request.
	MaxCompareSymbols = 3
	// DefaultSparklineInterval is the series interval used when none is requested.
	DefaultSparklineInterval = "1day"
)

// MarketService serves market-wide data: the polled ticker, top movers, sparklines,
// comparisons and the backend's search and news documents.
type MarketService struct {
	client *backend.Client
	quotes quotesync.BatchFetcher
	ticker *quotesync.Subscription[[]string]
	log    *slog.Logger
}

// NewMarketService creates a MarketService whose ticker tracks tickerSymbols.
func NewMarketService(client *backend.Client, quotes quotesync.BatchFetcher, tickerSymbols []string, log *slog.Logger) *MarketService {
	symbols := slices.Clone(tickerSymbols)
	load := func(context.Context) ([]string, []string, error) {
		return symbols, symbols, nil
	}
	return &MarketService{
		client: client,
		quotes: quotes,
		ticker: quotesync.NewSubscription("ticker", load, quotes, log),
		log:    log,
	}
}

// Start polls the ticker every interval.
func (s *MarketService) Start(scheduler *quotesync.Scheduler, interval time.Duration) error {
	return s.ticker.Start(scheduler, interval)
}

// Close stops the ticker.
func (s *MarketService) Close() {
	s.ticker.Close()
}

// Ticker returns the ticker tiles from the latest snapshot.
func (s *MarketService) Ticker() model.Ticker {
	snap := s.ticker.Snapshot()
	return model.Ticker{
		Tiles:  heatmap.Tiles(snap.Data, snap.Quotes),
		Status: snap.Status(),
	}
}

// RefreshTicker runs a ticker cycle now.
func (s *MarketService) RefreshTicker(ctx context.Context) model.Ticker {
	refreshDetached(ctx, s.ticker)
	return s.Ticker()
}

// Movers returns heatmap tiles for the first gainers and losers reported by the backend.
func (s *MarketService) Movers(ctx context.Context) (model.Movers, error) {
	movers, err := s.client.TopMovers(ctx)
	if err != nil {
		return model.Movers{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetMovers, err)
	}
	return model.Movers{
		Gainers: moverTiles(movers.TopGainers),
		Losers:  moverTiles(movers.TopLosers),
	}, nil
}

func moverTiles(movers []backend.Mover) []model.HeatmapTile {
	movers = movers[:min(len(movers), MoversPerSide)]
	tiles := make([]model.HeatmapTile, 0, len(movers))
	for _, m := range movers {
		tiles = append(tiles, heatmap.Tile(m.Ticker, parseLoose(m.Price), parseLoose(m.ChangePercentage)))
	}
	return tiles
}

// parseLoose parses "12.5", "12.5%" or "+3"; anything else is zero.
func parseLoose(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Sparkline returns the last SparklineLength closes of symbol, oldest first.
// Any failure yields an empty series; a missing sparkline never fails a page.
func (s *MarketService) Sparkline(ctx context.Context, symbol, interval string) []model.SparkPoint {
	if interval == "" {
		interval = DefaultSparklineInterval
	}
	series, err := s.client.StockSeries(ctx, symbol, interval)
	if err != nil {
		s.log.Warn("sparkline unavailable", "symbol", symbol, "error", err)
		return []model.SparkPoint{}
	}

	values := series.Values[:min(len(series.Values), SparklineLength)]
	points := make([]model.SparkPoint, len(values))
	for i, v := range values {
		points[len(values)-1-i] = model.SparkPoint{Value: v.Close}
	}
	return points
}

// Sparklines fetches the sparklines of several symbols concurrently.
func (s *MarketService) Sparklines(ctx context.Context, symbols []string, interval string) map[string][]model.SparkPoint {
	results := make([][]model.SparkPoint, len(symbols))

	var g errgroup.Group
	for i, symbol := range symbols {
		g.Go(func() error {
			results[i] = s.Sparkline(ctx, symbol, interval)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string][]model.SparkPoint, len(symbols))
	for i, symbol := range symbols {
		out[symbol] = results[i]
	}
	return out
}

// Compare fetches fresh quotes for up to MaxCompareSymbols symbols and returns one tile each.
func (s *MarketService) Compare(ctx context.Context, symbols []string) ([]model.HeatmapTile, error) {
	cleaned := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol != "" && !slices.Contains(cleaned, symbol) {
			cleaned = append(cleaned, symbol)
		}
	}
	if len(cleaned) == 0 {
		return nil, apperrors.ErrInvalidSymbol
	}
	if len(cleaned) > MaxCompareSymbols {
		return nil, fmt.Errorf("%w: at most %d", apperrors.ErrTooManySymbols, MaxCompareSymbols)
	}

	quotes := s.quotes.FetchAll(ctx, cleaned)
	return heatmap.Tiles(cleaned, quotes), nil
}

// Search forwards a symbol search to the backend.
func (s *MarketService) Search(ctx context.Context, query string) (json.RawMessage, error) {
	result, err := s.client.SearchStocks(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveData, err)
	}
	return result, nil
}

// News forwards the market news feed.
func (s *MarketService) News(ctx context.Context) (json.RawMessage, error) {
	result, err := s.client.MarketNews(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveData, err)
	}
	return result, nil
}

// Detail forwards one of the per-symbol documents (fundamentals, financials, news).
func (s *MarketService) Detail(ctx context.Context, symbol, kind string) (json.RawMessage, error) {
	result, err := s.client.StockDetail(ctx, symbol, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveData, err)
	}
	return result, nil
}

// IsStockDetailKind reports whether kind names a per-symbol document the backend serves.
func IsStockDetailKind(kind string) bool {
	return backend.StockDetailKinds[strings.ToLower(kind)]
}

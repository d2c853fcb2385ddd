package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/backend"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/portfolio"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quotesync"
)

// Trade sides accepted by PortfolioService.Trade.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// refreshTimeout bounds a user-triggered cycle once it is detached from the request.
const refreshTimeout = 30 * time.Second

// refreshDetached runs a cycle on a shared subscription without the caller's
// cancellation. The subscription serves every consumer, so a client that goes away
// must not cut its cycle short. Request values are kept.
func refreshDetached[T any](ctx context.Context, sub *quotesync.Subscription[T]) bool {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
	defer cancel()
	return sub.Refresh(ctx)
}

// PortfolioService keeps the user's holdings and their quotes fresh and derives the
// portfolio overview from them.
type PortfolioService struct {
	client   *backend.Client
	quotes   quotesync.BatchFetcher
	holdings *quotesync.Subscription[[]model.Holding]
	log      *slog.Logger
}

// NewPortfolioService creates a PortfolioService. The holdings subscription is idle
// until Start or Refresh is called.
func NewPortfolioService(client *backend.Client, quotes quotesync.BatchFetcher, log *slog.Logger) *PortfolioService {
	load := func(ctx context.Context) ([]model.Holding, []string, error) {
		holdings, err := client.Holdings(ctx)
		if err != nil {
			return nil, nil, err
		}
		return holdings, holdingSymbols(holdings), nil
	}
	return &PortfolioService{
		client:   client,
		quotes:   quotes,
		holdings: quotesync.NewSubscription("holdings", load, quotes, log),
		log:      log,
	}
}

// Start polls holdings and quotes every interval.
func (s *PortfolioService) Start(scheduler *quotesync.Scheduler, interval time.Duration) error {
	return s.holdings.Start(scheduler, interval)
}

// Close stops polling. No overview changes after Close returns.
func (s *PortfolioService) Close() {
	s.holdings.Close()
}

// Overview derives the portfolio overview from the latest holdings snapshot.
func (s *PortfolioService) Overview() model.PortfolioOverview {
	snap := s.holdings.Snapshot()
	overview := portfolio.Overview(snap.Data, snap.Quotes)
	overview.Status = snap.Status()
	return overview
}

// Refresh runs a holdings cycle now and returns the resulting overview.
func (s *PortfolioService) Refresh(ctx context.Context) model.PortfolioOverview {
	refreshDetached(ctx, s.holdings)
	return s.Overview()
}

// SharedOverview computes a one-shot overview of another user's shared holdings.
func (s *PortfolioService) SharedOverview(ctx context.Context, userID string) (model.PortfolioOverview, error) {
	if strings.TrimSpace(userID) == "" {
		return model.PortfolioOverview{}, apperrors.ErrInvalidUserID
	}

	holdings, err := s.client.SharedHoldings(ctx, userID)
	if err != nil {
		return model.PortfolioOverview{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetSharedPortfolio, err)
	}

	symbols := holdingSymbols(holdings)
	quotes := s.quotes.FetchAll(ctx, symbols)
	overview := portfolio.Overview(holdings, quotes)
	overview.Status = model.SyncStatus{UpdatedAt: time.Now().UTC()}
	if len(quotes) == 0 && len(symbols) > 0 {
		overview.Status.Error = apperrors.ErrQuotesUnavailable.Error()
	}
	return overview, nil
}

// Position returns a single holding valued against a freshly fetched quote.
func (s *PortfolioService) Position(ctx context.Context, symbol string) (model.Position, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.Position{}, apperrors.ErrInvalidSymbol
	}

	holding, err := s.client.Holding(ctx, symbol)
	if err != nil {
		return model.Position{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetHolding, err)
	}
	if holding.Symbol == "" {
		holding.Symbol = symbol
	}

	quotes := s.quotes.FetchAll(ctx, []string{holding.Symbol})
	return portfolio.Positions([]model.Holding{holding}, quotes)[0], nil
}

// Trade forwards a buy or sell order to the backend and refreshes the holdings afterwards.
func (s *PortfolioService) Trade(ctx context.Context, side string, req backend.TradeRequest) (json.RawMessage, error) {
	var (
		result json.RawMessage
		err    error
	)
	switch strings.ToLower(side) {
	case SideBuy:
		result, err = s.client.Buy(ctx, req)
	case SideSell:
		result, err = s.client.Sell(ctx, req)
	default:
		return nil, apperrors.ErrInvalidSide
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToSubmitTransaction, err)
	}

	s.log.Info("transaction submitted", "side", side, "symbol", req.Symbol, "quantity", req.Quantity.String())
	refreshDetached(ctx, s.holdings)
	return result, nil
}

// TopUp forwards a balance top-up to the backend and refreshes the holdings afterwards.
func (s *PortfolioService) TopUp(ctx context.Context, req backend.TopUpRequest) (json.RawMessage, error) {
	result, err := s.client.TopUp(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToTopUp, err)
	}
	refreshDetached(ctx, s.holdings)
	return result, nil
}

func holdingSymbols(holdings []model.Holding) []string {
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}
	return symbols
}

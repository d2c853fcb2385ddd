package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/logging"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quote"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quotesync"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/testutil"
)

func newOrchestrator(fb *testutil.FakeBackend) *quotesync.Orchestrator {
	return quotesync.NewOrchestrator(quote.NewGateway(fb.Client()), 0, logging.Discard())
}

func newPortfolioService(t *testing.T, fb *testutil.FakeBackend) *service.PortfolioService {
	t.Helper()
	svc := service.NewPortfolioService(fb.Client(), newOrchestrator(fb), logging.Discard())
	t.Cleanup(svc.Close)
	return svc
}

func newWatchlistService(t *testing.T, fb *testutil.FakeBackend) *service.WatchlistService {
	t.Helper()
	svc := service.NewWatchlistService(fb.Client(), newOrchestrator(fb), nil, 0, logging.Discard())
	t.Cleanup(svc.Close)
	return svc
}

func newMarketService(t *testing.T, fb *testutil.FakeBackend, ticker ...string) *service.MarketService {
	t.Helper()
	svc := service.NewMarketService(fb.Client(), newOrchestrator(fb), ticker, logging.Discard())
	t.Cleanup(svc.Close)
	return svc
}

func holding(symbol, qty, avg string) model.Holding {
	return model.Holding{
		Symbol:       symbol,
		Quantity:     decimal.RequireFromString(qty),
		AveragePrice: decimal.RequireFromString(avg),
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return v
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	return decode[response.ErrorResponse](t, w)
}

package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/handlers"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/testutil"
)

// TestPortfolioHandler_Overview tests GET /api/portfolio and POST /api/portfolio/refresh.
//
// WHY: The dashboard renders straight from this payload. A symbol whose quote failed
// must still be listed, with hasQuote false, instead of failing the whole response.
func TestPortfolioHandler_Overview(t *testing.T) {
	t.Run("GET /api/portfolio before the first refresh returns an empty overview", func(t *testing.T) {
		fb := testutil.NewFakeBackend(t)
		handler := handlers.NewPortfolioHandler(newPortfolioService(t, fb))

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
		w := httptest.NewRecorder()
		handler.Overview(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
		}
		overview := decode[model.PortfolioOverview](t, w)
		if len(overview.Positions) != 0 {
			t.Errorf("Expected no positions, got %d", len(overview.Positions))
		}
	})

	t.Run("POST /api/portfolio/refresh values holdings against fresh quotes", func(t *testing.T) {
		fb := testutil.NewFakeBackend(t)
		fb.SetHoldings(holding("AAPL", "10", "100"), holding("MSFT", "5", "200"))
		fb.SetQuote("AAPL", `{"symbol":"AAPL","close":"110","percent_change":"2"}`)
		fb.SetQuote("MSFT", `{"code":429,"message":"rate limited"}`)
		handler := handlers.NewPortfolioHandler(newPortfolioService(t, fb))

		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/refresh", nil)
		w := httptest.NewRecorder()
		handler.Refresh(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		overview := decode[model.PortfolioOverview](t, w)
		if len(overview.Positions) != 2 {
			t.Fatalf("Expected 2 positions, got %d", len(overview.Positions))
		}
		if overview.Positions[1].HasQuote {
			t.Error("Expected MSFT to have no quote")
		}
		if got := overview.Summary.CurrentValue.String(); got != "1100" {
			t.Errorf("Expected current value 1100, got %s", got)
		}
		if overview.Status.Generation != 1 {
			t.Errorf("Expected generation 1, got %d", overview.Status.Generation)
		}
	})
}

// TestPortfolioHandler_Shared tests GET /api/portfolio/shared/{userId}.
//
// WHY: Shared portfolios are fetched once per request, not polled. Backend failures
// must surface with a meaningful status instead of a generic 500.
func TestPortfolioHandler_Shared(t *testing.T) {
	t.Run("returns the shared overview", func(t *testing.T) {
		fb := testutil.NewFakeBackend(t)
		fb.SetSharedHoldings("friend", holding("NVDA", "2", "400"))
		fb.SetQuote("NVDA", `{"price":500,"dp":1.5}`)
		handler := handlers.NewPortfolioHandler(newPortfolioService(t, fb))

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/shared/friend", map[string]string{"userId": "friend"})
		w := httptest.NewRecorder()
		handler.Shared(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		overview := decode[model.PortfolioOverview](t, w)
		if got := overview.Summary.CurrentValue.String(); got != "1000" {
			t.Errorf("Expected current value 1000, got %s", got)
		}
	})

	t.Run("blank user ID returns 400", func(t *testing.T) {
		fb := testutil.NewFakeBackend(t)
		handler := handlers.NewPortfolioHandler(newPortfolioService(t, fb))

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/shared/%20", map[string]string{"userId": " "})
		w := httptest.NewRecorder()
		handler.Shared(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("backend outage returns 502", func(t *testing.T) {
		fb := testutil.NewFakeBackend(t)
		fb.Fail("shared", http.StatusServiceUnavailable)
		handler := handlers.NewPortfolioHandler(newPortfolioService(t, fb))

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/shared/friend", map[string]string{"userId": "friend"})
		w := httptest.NewRecorder()
		handler.Shared(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected status 502, got %d", w.Code)
		}
	})
}

// TestPortfolioHandler_Holding tests GET /api/holdings/{symbol}.
func TestPortfolioHandler_Holding(t *testing.T) {
	t.Run("returns the valued position", func(t *testing.T) {
		fb := testutil.NewFakeBackend(t)
		fb.SetHoldings(holding("AAPL", "10", "100"))
		fb.SetQuote("AAPL", `{"close":"120","percent_change":"-1"}`)
		handler := handlers.NewPortfolioHandler(newPortfolioService(t, fb))

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/holdings/aapl", map[string]string{"symbol": "aapl"})
		w := httptest.NewRecorder()
		handler.Holding(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		position := decode[model.Position](t, w)
		if position.Symbol != "AAPL" {
			t.Errorf("Expected symbol AAPL, got %s", position.Symbol)
		}
		if position.Trend != model.TrendBear {
			t.Errorf("Expected bear trend, got %s", position.Trend)
		}
	})

	t.Run("unknown holding returns 404", func(t *testing.T) {
		fb := testutil.NewFakeBackend(t)
		handler := handlers.NewPortfolioHandler(newPortfolioService(t, fb))

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/holdings/TSLA", map[string]string{"symbol": "TSLA"})
		w := httptest.NewRecorder()
		handler.Holding(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

// TestPortfolioHandler_Trade tests POST /api/transactions/{side}.
//
// WHY: Orders are forwarded to the backend. Malformed orders must be rejected before
// they leave the process, and a backend rejection must keep its 4xx status.
func TestPortfolioHandler_Trade(t *testing.T) {
	t.Run("buy is forwarded with an upper-cased symbol", func(t *testing.T) {
		fb := testutil.NewFakeBackend(t)
		handler := handlers.NewPortfolioHandler(newPortfolioService(t, fb))

		req := testutil.NewJSONRequestWithURLParams(http.MethodPost, "/api/transactions/buy",
			`{"symbol":" aapl ","quantity":"3","price":"150"}`, map[string]string{"side": "buy"})
		w := httptest.NewRecorder()
		handler.Trade(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		trades := fb.Trades()
		if len(trades) != 1 {
			t.Fatalf("Expected 1 trade, got %d", len(trades))
		}
		if trades[0].Request.Symbol != "AAPL" {
			t.Errorf("Expected symbol AAPL, got %s", trades[0].Request.Symbol)
		}
	})

	t.Run("unknown side returns 400 without calling the backend", func(t *testing.T) {
		fb := testutil.NewFakeBackend(t)
		handler := handlers.NewPortfolioHandler(newPortfolioService(t, fb))

		req := testutil.NewJSONRequestWithURLParams(http.MethodPost, "/api/transactions/short",
			`{"symbol":"AAPL","quantity":"3","price":"150"}`, map[string]string{"side": "short"})
		w := httptest.NewRecorder()
		handler.Trade(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
		if n := len(fb.Trades()); n != 0 {
			t.Errorf("Expected no trades, got %d", n)
		}
	})

	t.Run("non-positive quantity returns 400", func(t *testing.T) {
		fb := testutil.NewFakeBackend(t)
		handler := handlers.NewPortfolioHandler(newPortfolioService(t, fb))

		req := testutil.NewJSONRequestWithURLParams(http.MethodPost, "/api/transactions/buy",
			`{"symbol":"AAPL","quantity":"0","price":"150"}`, map[string]string{"side": "buy"})
		w := httptest.NewRecorder()
		handler.Trade(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("unknown body field returns 400", func(t *testing.T) {
		fb := testutil.NewFakeBackend(t)
		handler := handlers.NewPortfolioHandler(newPortfolioService(t, fb))

		req := testutil.NewJSONRequestWithURLParams(http.MethodPost, "/api/transactions/buy",
			`{"symbol":"AAPL","quantity":"1","price":"1","leverage":10}`, map[string]string{"side": "buy"})
		w := httptest.NewRecorder()
		handler.Trade(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("backend rejection keeps its status", func(t *testing.T) {
		fb := testutil.NewFakeBackend(t)
		fb.SetHoldings(holding("AAPL", "1", "100"))
		handler := handlers.NewPortfolioHandler(newPortfolioService(t, fb))

		req := testutil.NewJSONRequestWithURLParams(http.MethodPost, "/api/transactions/sell",
			`{"symbol":"AAPL","quantity":"5","price":"100"}`, map[string]string{"side": "sell"})
		w := httptest.NewRecorder()
		handler.Trade(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
		if body := decodeError(t, w); body.Error != "failed to submit transaction" {
			t.Errorf("Expected submit error message, got %q", body.Error)
		}
	})
}

// TestPortfolioHandler_TopUp tests POST /api/users/topup.
func TestPortfolioHandler_TopUp(t *testing.T) {
	t.Run("forwards the amount", func(t *testing.T) {
		fb := testutil.NewFakeBackend(t)
		handler := handlers.NewPortfolioHandler(newPortfolioService(t, fb))

		req := testutil.NewJSONRequestWithURLParams(http.MethodPost, "/api/users/topup", `{"amount":"250.50"}`, nil)
		w := httptest.NewRecorder()
		handler.TopUp(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		body := decode[map[string]string](t, w)
		if body["balance"] != "250.5" {
			t.Errorf("Expected balance 250.5, got %s", body["balance"])
		}
	})

	t.Run("negative amount returns 400", func(t *testing.T) {
		fb := testutil.NewFakeBackend(t)
		handler := handlers.NewPortfolioHandler(newPortfolioService(t, fb))

		req := testutil.NewJSONRequestWithURLParams(http.MethodPost, "/api/users/topup", `{"amount":"-1"}`, nil)
		w := httptest.NewRecorder()
		handler.TopUp(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
		if n := len(fb.TopUps()); n != 0 {
			t.Errorf("Expected no top-ups, got %d", n)
		}
	})
}

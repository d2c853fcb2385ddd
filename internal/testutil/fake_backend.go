package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/backend"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// RecordedTrade is a transaction request received by a FakeBackend.
type RecordedTrade struct {
	Side    string
	Request backend.TradeRequest
}

// FakeBackend is an in-memory stand-in for the REST backend, served over httptest.
// It keeps holdings, watchlists, quote payloads, series and movers, applies trades to
// the holdings, and can be told to fail any endpoint group with a status code.
//
// Endpoint groups for Fail: "holdings", "shared", "holding", "quote", "series",
// "movers", "search", "news", "detail", "watchlists", "transactions", "topup".
type FakeBackend struct {
	Server *httptest.Server

	mu         sync.Mutex
	holdings   []model.Holding
	shared     map[string][]model.Holding
	watchlists []model.Watchlist
	nextID     int64
	quotes     map[string]string
	series     map[string][]string
	movers     backend.TopMovers
	trades     []RecordedTrade
	topUps     []decimal.Decimal
	failures   map[string]int
	requests   map[string]int
}

// NewFakeBackend starts a FakeBackend that is closed when the test completes.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	f := &FakeBackend{
		shared:   make(map[string][]model.Holding),
		nextID:   1,
		quotes:   make(map[string]string),
		series:   make(map[string][]string),
		failures: make(map[string]int),
		requests: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/holdings", f.handleHoldings)
		r.Get("/holdings/shared/{userId}", f.handleShared)
		r.Get("/holdings/{symbol}", f.handleHolding)

		r.Get("/stocks/search", f.handleSearch)
		r.Get("/stocks/top-movers", f.handleMovers)
		r.Get("/stocks/news", f.handleNews)
		r.Get("/stocks/{symbol}/quote", f.handleQuote)
		r.Get("/stocks/{symbol}/data", f.handleSeries)
		r.Get("/stocks/{symbol}/{kind}", f.handleDetail)

		r.Get("/watchlists", f.handleWatchlists)
		r.Post("/watchlists", f.handleCreateWatchlist)
		r.Delete("/watchlists/{id}", f.handleDeleteWatchlist)
		r.Post("/watchlists/{id}/stocks/{symbol}", f.handleWatchlistSymbol)
		r.Delete("/watchlists/{id}/stocks/{symbol}", f.handleWatchlistSymbol)

		r.Post("/transactions/{side}", f.handleTrade)
		r.Post("/users/topup", f.handleTopUp)
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// Client returns a backend client pointed at the fake.
func (f *FakeBackend) Client() *backend.Client {
	return backend.NewClient(f.Server.URL + "/api")
}

// SetHoldings replaces the user's holdings.
func (f *FakeBackend) SetHoldings(holdings ...model.Holding) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holdings = slices.Clone(holdings)
}

// SetSharedHoldings sets the holdings behind a share link.
func (f *FakeBackend) SetSharedHoldings(userID string, holdings ...model.Holding) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shared[userID] = slices.Clone(holdings)
}

// AddWatchlist stores a watchlist and returns it with its assigned ID.
func (f *FakeBackend) AddWatchlist(name string, symbols ...string) model.Watchlist {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := model.Watchlist{ID: f.nextID, Name: name, Symbols: append([]string{}, symbols...)}
	f.nextID++
	f.watchlists = append(f.watchlists, w)
	return w
}

// SetQuote sets the raw provider payload served for symbol.
func (f *FakeBackend) SetQuote(symbol, payload string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotes[symbol] = payload
}

// SetSeries sets the closes served for symbol, newest first.
func (f *FakeBackend) SetSeries(symbol string, closes ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.series[symbol] = closes
}

// SetMovers sets the top movers payload.
func (f *FakeBackend) SetMovers(movers backend.TopMovers) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movers = movers
}

// Fail makes an endpoint group answer with status. Status 0 restores normal behavior.
func (f *FakeBackend) Fail(group string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.failures, group)
		return
	}
	f.failures[group] = status
}

// Trades returns the transactions received so far.
func (f *FakeBackend) Trades() []RecordedTrade {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.trades)
}

// TopUps returns the top-up amounts received so far.
func (f *FakeBackend) TopUps() []decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.topUps)
}

// Requests returns how many requests an endpoint group has received.
func (f *FakeBackend) Requests(group string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[group]
}

// Watchlists returns the stored watchlists.
func (f *FakeBackend) Watchlists() []model.Watchlist {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.watchlists)
}

// enter counts the request and answers with the scripted failure, if any.
// It returns false when the handler must stop. The caller must hold f.mu.
func (f *FakeBackend) enter(w http.ResponseWriter, group string) bool {
	f.requests[group]++
	if status, ok := f.failures[group]; ok {
		http.Error(w, `{"error":"scripted failure"}`, status)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *FakeBackend) handleHoldings(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(w, "holdings") {
		return
	}
	writeJSON(w, http.StatusOK, append([]model.Holding{}, f.holdings...))
}

func (f *FakeBackend) handleShared(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(w, "shared") {
		return
	}
	holdings, ok := f.shared[chi.URLParam(r, "userId")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, holdings)
}

func (f *FakeBackend) handleHolding(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(w, "holding") {
		return
	}
	symbol := chi.URLParam(r, "symbol")
	for _, h := range f.holdings {
		if h.Symbol == symbol {
			writeJSON(w, http.StatusOK, h)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "holding not found"})
}

func (f *FakeBackend) handleQuote(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(w, "quote") {
		return
	}
	payload, ok := f.quotes[chi.URLParam(r, "symbol")]
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"status": "error", "message": "symbol not found"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(payload))
}

func (f *FakeBackend) handleSeries(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(w, "series") {
		return
	}
	closes, ok := f.series[chi.URLParam(r, "symbol")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no data"})
		return
	}
	values := make([]map[string]string, len(closes))
	for i, c := range closes {
		values[i] = map[string]string{"datetime": strconv.Itoa(len(closes) - i), "close": c}
	}
	writeJSON(w, http.StatusOK, map[string]any{"interval": r.URL.Query().Get("interval"), "values": values})
}

func (f *FakeBackend) handleMovers(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(w, "movers") {
		return
	}
	writeJSON(w, http.StatusOK, f.movers)
}

func (f *FakeBackend) handleSearch(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(w, "search") {
		return
	}
	query := strings.ToUpper(r.URL.Query().Get("symbol"))
	matches := []map[string]string{}
	for symbol := range f.quotes {
		if query != "" && strings.HasPrefix(symbol, query) {
			matches = append(matches, map[string]string{"symbol": symbol})
		}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (f *FakeBackend) handleNews(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(w, "news") {
		return
	}
	writeJSON(w, http.StatusOK, []map[string]string{{"headline": "Markets open higher"}})
}

func (f *FakeBackend) handleDetail(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(w, "detail") {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"symbol": chi.URLParam(r, "symbol"),
		"kind":   chi.URLParam(r, "kind"),
	})
}

func (f *FakeBackend) handleWatchlists(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(w, "watchlists") {
		return
	}
	writeJSON(w, http.StatusOK, append([]model.Watchlist{}, f.watchlists...))
}

func (f *FakeBackend) handleCreateWatchlist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(w, "watchlists") {
		return
	}
	wl := model.Watchlist{ID: f.nextID, Name: body.Name, Symbols: []string{}}
	f.nextID++
	f.watchlists = append(f.watchlists, wl)
	writeJSON(w, http.StatusCreated, wl)
}

func (f *FakeBackend) handleDeleteWatchlist(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(w, "watchlists") {
		return
	}
	i := f.watchlistIndex(chi.URLParam(r, "id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "watchlist not found"})
		return
	}
	f.watchlists = slices.Delete(f.watchlists, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeBackend) handleWatchlistSymbol(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(w, "watchlists") {
		return
	}
	i := f.watchlistIndex(chi.URLParam(r, "id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "watchlist not found"})
		return
	}
	symbol := chi.URLParam(r, "symbol")
	wl := &f.watchlists[i]
	if r.Method == http.MethodDelete {
		wl.Symbols = slices.DeleteFunc(wl.Symbols, func(s string) bool { return s == symbol })
	} else if !slices.Contains(wl.Symbols, symbol) {
		wl.Symbols = append(wl.Symbols, symbol)
	}
	writeJSON(w, http.StatusOK, wl)
}

func (f *FakeBackend) watchlistIndex(rawID string) int {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return -1
	}
	return slices.IndexFunc(f.watchlists, func(w model.Watchlist) bool { return w.ID == id })
}

func (f *FakeBackend) handleTrade(w http.ResponseWriter, r *http.Request) {
	var req backend.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(w, "transactions") {
		return
	}
	side := chi.URLParam(r, "side")
	f.trades = append(f.trades, RecordedTrade{Side: side, Request: req})

	i := slices.IndexFunc(f.holdings, func(h model.Holding) bool { return h.Symbol == req.Symbol })
	switch side {
	case "buy":
		if i < 0 {
			f.holdings = append(f.holdings, model.Holding{Symbol: req.Symbol, Quantity: req.Quantity, AveragePrice: req.Price})
			break
		}
		h := &f.holdings[i]
		cost := h.Quantity.Mul(h.AveragePrice).Add(req.Quantity.Mul(req.Price))
		h.Quantity = h.Quantity.Add(req.Quantity)
		h.AveragePrice = cost.Div(h.Quantity)
	case "sell":
		if i < 0 || f.holdings[i].Quantity.LessThan(req.Quantity) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "insufficient quantity"})
			return
		}
		f.holdings[i].Quantity = f.holdings[i].Quantity.Sub(req.Quantity)
		if f.holdings[i].Quantity.IsZero() {
			f.holdings = slices.Delete(f.holdings, i, i+1)
		}
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown side"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "filled", "side": side, "symbol": req.Symbol})
}

func (f *FakeBackend) handleTopUp(w http.ResponseWriter, r *http.Request) {
	var req backend.TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enter(w, "topup") {
		return
	}
	f.topUps = append(f.topUps, req.Amount)
	total := decimal.Zero
	for _, a := range f.topUps {
		total = total.Add(a)
	}
	writeJSON(w, http.StatusOK, map[string]string{"balance": total.String()})
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/validation"
)

// maxSparklineSymbols caps GET /api/market/sparklines.
const maxSparklineSymbols = 20

// MarketHandler handles ticker, movers, comparison and stock lookup requests.
type MarketHandler struct {
	marketService *service.MarketService
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// Ticker returns the polled market ticker.
//
// Endpoint: GET /api/market/ticker
// Response: 200 OK with model.Ticker
func (h *MarketHandler) Ticker(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.marketService.Ticker())
}

// Movers returns the top gainers and losers as heatmap tiles.
//
// Endpoint: GET /api/market/movers
// Response: 200 OK with model.Movers
func (h *MarketHandler) Movers(w http.ResponseWriter, r *http.Request) {
	movers, err := h.marketService.Movers(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetMovers.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, movers)
}

// Compare returns fresh quotes for up to three symbols.
//
// Endpoint: GET /api/market/compare?symbols=AAPL,MSFT
// Response: 200 OK with array of model.HeatmapTile
// Error: 400 Bad Request if no symbols or more than three are given
func (h *MarketHandler) Compare(w http.ResponseWriter, r *http.Request) {
	tiles, err := h.marketService.Compare(r.Context(), validation.SplitSymbols(r.URL.Query().Get("symbols")))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveData.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, tiles)
}

// Sparklines returns sparklines for several symbols.
//
// Endpoint: GET /api/market/sparklines?symbols=AAPL,MSFT&interval=1day
// Response: 200 OK with a map of symbol to array of model.SparkPoint
func (h *MarketHandler) Sparklines(w http.ResponseWriter, r *http.Request) {
	symbols := validation.SplitSymbols(r.URL.Query().Get("symbols"))
	if len(symbols) == 0 || len(symbols) > maxSparklineSymbols {
		response.RespondError(w, http.StatusBadRequest, "between 1 and 20 symbols are required", "")
		return
	}
	for _, symbol := range symbols {
		if err := validation.ValidateSymbol(symbol); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid symbol", err.Error())
			return
		}
	}
	response.RespondJSON(w, http.StatusOK, h.marketService.Sparklines(r.Context(), symbols, r.URL.Query().Get("interval")))
}

// Search forwards a symbol search to the backend.
//
// Endpoint: GET /api/stocks/search?symbol=AA
// Response: 200 OK with the backend's search result
func (h *MarketHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("symbol")
	if query == "" {
		response.RespondError(w, http.StatusBadRequest, "symbol query parameter is required", "")
		return
	}
	result, err := h.marketService.Search(r.Context(), query)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveData.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}

// News forwards the market news feed.
//
// Endpoint: GET /api/stocks/news
func (h *MarketHandler) News(w http.ResponseWriter, r *http.Request) {
	result, err := h.marketService.News(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveData.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}

// Sparkline returns the last closes of a symbol, oldest first. It never fails; an
// unavailable series is an empty array.
//
// Endpoint: GET /api/stocks/{symbol}/sparkline?interval=1day
// Response: 200 OK with array of model.SparkPoint
func (h *MarketHandler) Sparkline(w http.ResponseWriter, r *http.Request) {
	points := h.marketService.Sparkline(r.Context(), chi.URLParam(r, "symbol"), r.URL.Query().Get("interval"))
	response.RespondJSON(w, http.StatusOK, points)
}

// Detail forwards fundamentals, financials or news of a symbol.
//
// Endpoint: GET /api/stocks/{symbol}/{kind}
// Error: 404 Not Found for an unknown kind
func (h *MarketHandler) Detail(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !service.IsStockDetailKind(kind) {
		response.RespondError(w, http.StatusNotFound, "unknown stock detail", kind)
		return
	}
	result, err := h.marketService.Detail(r.Context(), chi.URLParam(r, "symbol"), kind)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveData.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}

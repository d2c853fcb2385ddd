package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/backend"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/validation"
)

// PortfolioHandler handles portfolio, holding and transaction requests.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Overview returns the portfolio overview derived from the latest polled snapshot.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with model.PortfolioOverview
func (h *PortfolioHandler) Overview(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.portfolioService.Overview())
}

// Refresh runs a holdings and quotes cycle immediately.
//
// Endpoint: POST /api/portfolio/refresh
// Response: 200 OK with model.PortfolioOverview
func (h *PortfolioHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.portfolioService.Refresh(r.Context()))
}

// Shared returns a one-shot overview of another user's shared holdings.
//
// Endpoint: GET /api/portfolio/shared/{userId}
// Response: 200 OK with model.PortfolioOverview
// Error: 400 Bad Request if the user ID is blank
// Error: 404 Not Found if the backend does not know the share link
// Error: 502 Bad Gateway if the backend is unreachable
func (h *PortfolioHandler) Shared(w http.ResponseWriter, r *http.Request) {
	overview, err := h.portfolioService.SharedOverview(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetSharedPortfolio.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, overview)
}

// Holding returns one holding valued against a fresh quote.
//
// Endpoint: GET /api/holdings/{symbol}
// Response: 200 OK with model.Position
// Error: 404 Not Found if the user does not hold the symbol
func (h *PortfolioHandler) Holding(w http.ResponseWriter, r *http.Request) {
	position, err := h.portfolioService.Position(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetHolding.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, position)
}

// Trade submits a simulated buy or sell order.
//
// Endpoint: POST /api/transactions/{side}
// Request Body: request.TradeRequest (symbol, quantity, price)
// Response: 200 OK with the backend's transaction result
// Error: 400 Bad Request if validation fails or the backend rejects the order
func (h *PortfolioHandler) Trade(w http.ResponseWriter, r *http.Request) {
	side := strings.ToLower(chi.URLParam(r, "side"))

	req, err := parseJSON[request.TradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateTrade(side, req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.portfolioService.Trade(r.Context(), side, backend.TradeRequest{
		Symbol:   strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSubmitTransaction.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}

// TopUp adds funds to the user's simulated balance.
//
// Endpoint: POST /api/users/topup
// Request Body: request.TopUpRequest (amount)
// Response: 200 OK with the backend's balance result
func (h *PortfolioHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.TopUpRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateTopUp(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.portfolioService.TopUp(r.Context(), backend.TopUpRequest{Amount: req.Amount})
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToTopUp.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}

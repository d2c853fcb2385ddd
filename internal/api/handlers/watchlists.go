package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/validation"
)

// WatchlistHandler handles watchlist CRUD and live board requests.
type WatchlistHandler struct {
	watchlistService *service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler
func NewWatchlistHandler(watchlistService *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{
		watchlistService: watchlistService,
	}
}

// watchlistID reads the id path parameter, already checked by ValidateWatchlistIDMiddleware.
func watchlistID(r *http.Request) int64 {
	id, _ := validation.ParseWatchlistID(chi.URLParam(r, "id"))
	return id
}

// Watchlists lists the user's watchlists.
//
// Endpoint: GET /api/watchlists
// Response: 200 OK with array of model.Watchlist
func (h *WatchlistHandler) Watchlists(w http.ResponseWriter, r *http.Request) {
	watchlists, err := h.watchlistService.Watchlists(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveWatchlists.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, watchlists)
}

// CreateWatchlist creates an empty watchlist.
//
// Endpoint: POST /api/watchlists
// Request Body: request.CreateWatchlistRequest (name)
// Response: 201 Created with model.Watchlist
func (h *WatchlistHandler) CreateWatchlist(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateWatchlistRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateCreateWatchlist(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	watchlist, err := h.watchlistService.Create(r.Context(), req.Name)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateWatchlist.Error())
		return
	}
	response.RespondJSON(w, http.StatusCreated, watchlist)
}

// DeleteWatchlist deletes a watchlist and its live board.
//
// Endpoint: DELETE /api/watchlists/{id}
// Response: 204 No Content
func (h *WatchlistHandler) DeleteWatchlist(w http.ResponseWriter, r *http.Request) {
	if err := h.watchlistService.Delete(r.Context(), watchlistID(r)); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateWatchlist.Error())
		return
	}
	response.RespondNoContent(w)
}

// AddSymbol adds a symbol to a watchlist.
//
// Endpoint: POST /api/watchlists/{id}/stocks/{symbol}
// Response: 200 OK with the updated model.Watchlist
func (h *WatchlistHandler) AddSymbol(w http.ResponseWriter, r *http.Request) {
	watchlist, err := h.watchlistService.AddSymbol(r.Context(), watchlistID(r), chi.URLParam(r, "symbol"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateWatchlist.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, watchlist)
}

// RemoveSymbol removes a symbol from a watchlist.
//
// Endpoint: DELETE /api/watchlists/{id}/stocks/{symbol}
// Response: 200 OK with the updated model.Watchlist
func (h *WatchlistHandler) RemoveSymbol(w http.ResponseWriter, r *http.Request) {
	watchlist, err := h.watchlistService.RemoveSymbol(r.Context(), watchlistID(r), chi.URLParam(r, "symbol"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateWatchlist.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, watchlist)
}

// Board returns the live heatmap board of a watchlist, subscribing on first call.
//
// Endpoint: GET /api/watchlists/{id}/board
// Response: 200 OK with model.WatchlistBoard
// Error: 404 Not Found if the watchlist does not exist
func (h *WatchlistHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.watchlistService.Board(r.Context(), watchlistID(r))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetWatchlistBoard.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, board)
}

// Unwatch tears down the live board of a watchlist.
//
// Endpoint: DELETE /api/watchlists/{id}/board
// Response: 204 No Content
// Error: 404 Not Found if no board is live
func (h *WatchlistHandler) Unwatch(w http.ResponseWriter, r *http.Request) {
	if err := h.watchlistService.Unwatch(watchlistID(r)); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetWatchlistBoard.Error())
		return
	}
	response.RespondNoContent(w)
}

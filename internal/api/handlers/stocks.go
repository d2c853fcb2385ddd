package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/localstore"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/validation"
)

// StockStateHandler serves the locally persisted per-symbol state: price alerts and notes.
type StockStateHandler struct {
	alerts *localstore.AlertStore
	notes  *localstore.NoteStore
}

// NewStockStateHandler creates a new StockStateHandler
func NewStockStateHandler(alerts *localstore.AlertStore, notes *localstore.NoteStore) *StockStateHandler {
	return &StockStateHandler{
		alerts: alerts,
		notes:  notes,
	}
}

// NoteResponse is the body returned for a symbol's note.
type NoteResponse struct {
	Symbol string `json:"symbol"`
	Text   string `json:"text"`
}

// Alerts lists the price alerts of a symbol in creation order.
//
// Endpoint: GET /api/stocks/{symbol}/alerts
// Response: 200 OK with array of model.PriceAlert
func (h *StockStateHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alerts.ListAlerts(chi.URLParam(r, "symbol"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToReadStore.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, alerts)
}

// CreateAlert stores a new price alert for a symbol.
//
// Endpoint: POST /api/stocks/{symbol}/alerts
// Request Body: request.CreateAlertRequest (target)
// Response: 201 Created with model.PriceAlert
func (h *StockStateHandler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAlertRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateCreateAlert(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	alert, err := h.alerts.AddAlert(chi.URLParam(r, "symbol"), req.Target)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToWriteStore.Error())
		return
	}
	response.RespondJSON(w, http.StatusCreated, alert)
}

// DeleteAlert removes a price alert.
//
// Endpoint: DELETE /api/alerts/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if no alert has the ID
func (h *StockStateHandler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.alerts.RemoveAlert(chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToWriteStore.Error())
		return
	}
	response.RespondNoContent(w)
}

// Note returns the note of a symbol; the text is empty when none is stored.
//
// Endpoint: GET /api/stocks/{symbol}/note
// Response: 200 OK with NoteResponse
func (h *StockStateHandler) Note(w http.ResponseWriter, r *http.Request) {
	symbol := localstore.NormalizeSymbol(chi.URLParam(r, "symbol"))
	text, err := h.notes.GetNote(symbol)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToReadStore.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, NoteResponse{Symbol: symbol, Text: text})
}

// PutNote replaces the note of a symbol. An empty text deletes it.
//
// Endpoint: PUT /api/stocks/{symbol}/note
// Request Body: request.NoteRequest (text)
// Response: 200 OK with NoteResponse
func (h *StockStateHandler) PutNote(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.NoteRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateNote(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	symbol := localstore.NormalizeSymbol(chi.URLParam(r, "symbol"))
	if err := h.notes.SetNote(symbol, req.Text); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToWriteStore.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, NoteResponse{Symbol: symbol, Text: req.Text})
}

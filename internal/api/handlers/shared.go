package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/backend"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T, rejecting unknown fields.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("failed to decode request body: %w", err)
	}
	return v, nil
}

var badRequestErrors = []error{
	apperrors.ErrInvalidSymbol,
	apperrors.ErrInvalidTarget,
	apperrors.ErrInvalidWatchlistID,
	apperrors.ErrInvalidUserID,
	apperrors.ErrInvalidUUID,
	apperrors.ErrInvalidSide,
	apperrors.ErrTooManySymbols,
}

var notFoundErrors = []error{
	apperrors.ErrHoldingNotFound,
	apperrors.ErrWatchlistNotFound,
	apperrors.ErrAlertNotFound,
	apperrors.ErrSubscriptionNotFound,
}

// respondServiceError maps a service error to a status code. Validation errors become
// 400, missing entities 404, a backend that answered with a client error keeps its
// status, and an unreachable backend is 502. Everything else is a 500 with message.
func respondServiceError(w http.ResponseWriter, err error, message string) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			response.RespondError(w, http.StatusBadRequest, target.Error(), err.Error())
			return
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			response.RespondError(w, http.StatusNotFound, target.Error(), err.Error())
			return
		}
	}

	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 {
		response.RespondError(w, statusErr.StatusCode, message, err.Error())
		return
	}
	if errors.Is(err, apperrors.ErrBackendUnavailable) {
		response.RespondError(w, http.StatusBadGateway, message, err.Error())
		return
	}
	response.RespondError(w, http.StatusInternalServerError, message, err.Error())
}

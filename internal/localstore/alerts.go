package localstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// AlertStore keeps every price alert in a single persisted collection and filters by
// symbol at read time.
type AlertStore struct {
	kv  KV
	now func() time.Time
}

// NewAlertStore creates an AlertStore on top of kv.
func NewAlertStore(kv KV) *AlertStore {
	return &AlertStore{kv: kv, now: time.Now}
}

// ListAlerts returns the alerts for symbol in creation order.
// An empty slice is returned when none exist.
func (s *AlertStore) ListAlerts(symbol string) ([]model.PriceAlert, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)
	alerts := []model.PriceAlert{}
	for _, a := range all {
		if a.Symbol == symbol {
			alerts = append(alerts, a)
		}
	}
	return alerts, nil
}

// AddAlert appends a new alert for symbol and persists the whole collection.
//
// Returns apperrors.ErrInvalidSymbol or apperrors.ErrInvalidTarget when the input is
// unusable, otherwise the stored alert.
func (s *AlertStore) AddAlert(symbol string, target decimal.Decimal) (model.PriceAlert, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return model.PriceAlert{}, apperrors.ErrInvalidSymbol
	}
	if !target.IsPositive() {
		return model.PriceAlert{}, apperrors.ErrInvalidTarget
	}

	all, err := s.load()
	if err != nil {
		return model.PriceAlert{}, err
	}
	alert := model.PriceAlert{
		ID:        uuid.NewString(),
		Symbol:    symbol,
		Target:    target,
		CreatedAt: s.now().UTC(),
	}
	if err := s.save(append(all, alert)); err != nil {
		return model.PriceAlert{}, err
	}
	return alert, nil
}

// RemoveAlert deletes the alert with the given id.
// Returns apperrors.ErrAlertNotFound when no alert has that id.
func (s *AlertStore) RemoveAlert(id string) error {
	all, err := s.load()
	if err != nil {
		return err
	}
	next := make([]model.PriceAlert, 0, len(all))
	for _, a := range all {
		if a.ID != id {
			next = append(next, a)
		}
	}
	if len(next) == len(all) {
		return apperrors.ErrAlertNotFound
	}
	return s.save(next)
}

func (s *AlertStore) load() ([]model.PriceAlert, error) {
	raw, ok, err := s.kv.Get(alertsKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToReadStore, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var alerts []model.PriceAlert
	if err := json.Unmarshal([]byte(raw), &alerts); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrCorruptStoreValue, alertsKey, err)
	}
	return alerts, nil
}

func (s *AlertStore) save(alerts []model.PriceAlert) error {
	raw, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToWriteStore, err)
	}
	if err := s.kv.Put(alertsKey, string(raw)); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToWriteStore, err)
	}
	return nil
}

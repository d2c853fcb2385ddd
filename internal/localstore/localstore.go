// Package localstore persists the small pieces of per-user state that live outside the
// backend: free-text notes and price alerts.
//
// Writes are read-modify-write cycles over a whole collection with no locking. Two writers
// interleaving can lose an update; the last writer wins. This is acceptable under the
// single-user, single-writer usage the tracker is built for.
package localstore

import (
	"strings"
)

const (
	alertsKey  = "priceAlerts"
	notePrefix = "note:"
)

// KV is the persisted key-value collection the stores are built on.
// repository.StateRepository is the production implementation.
type KV interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
	Delete(key string) error
}

// NormalizeSymbol upper-cases and trims a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

package validation

import (
	"strings"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/request"
)

const maxWatchlistNameLength = 100

// ValidateCreateWatchlist validates a watchlist creation request.
func ValidateCreateWatchlist(req request.CreateWatchlistRequest) error {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return &Error{Fields: map[string]string{"name": "name is required"}}
	case len(name) > maxWatchlistNameLength:
		return &Error{Fields: map[string]string{"name": "name must be at most 100 characters"}}
	}
	return nil
}

package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
)

// symbolPattern accepts tickers like AAPL, BRK.B, ^GSPC and EURUSD=X.
var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9.\-^=]{1,15}$`)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, id)
	}
	return nil
}

// ValidateSymbol checks that symbol looks like a ticker.
func ValidateSymbol(symbol string) error {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return apperrors.ErrInvalidSymbol
	}
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("%w: %q is not a valid ticker", apperrors.ErrInvalidSymbol, symbol)
	}
	return nil
}

// ParseWatchlistID parses a watchlist ID path parameter.
func ParseWatchlistID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidWatchlistID, raw)
	}
	return id, nil
}

// SplitSymbols splits a comma separated symbol list, dropping blanks.
func SplitSymbols(raw string) []string {
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

// Package quote fetches one quote per symbol from the backend and normalizes the
// provider's response into model.Quote.
package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// PayloadSource returns the raw provider payload for a symbol.
// backend.Client satisfies it.
type PayloadSource interface {
	QuotePayload(ctx context.Context, symbol string) ([]byte, error)
}

// FetchError is the tagged failure of a single symbol's fetch.
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("quote %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Gateway issues one quote request per symbol.
type Gateway struct {
	source PayloadSource
	now    func() time.Time
}

// NewGateway creates a Gateway reading payloads from source.
func NewGateway(source PayloadSource) *Gateway {
	return &Gateway{source: source, now: time.Now}
}

// FetchQuote fetches and normalizes the quote for symbol.
// Every failure, transport or parse, is returned as *FetchError carrying the symbol.
func (g *Gateway) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	payload, err := g.source.QuotePayload(ctx, symbol)
	if err != nil {
		return model.Quote{}, &FetchError{Symbol: symbol, Err: err}
	}
	q, err := Normalize(symbol, payload, g.now().UTC())
	if err != nil {
		return model.Quote{}, &FetchError{Symbol: symbol, Err: err}
	}
	return q, nil
}

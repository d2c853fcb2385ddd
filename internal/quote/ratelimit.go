package quote

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// Fetcher is the per-symbol quote contract shared by Gateway and its decorators.
type Fetcher interface {
	FetchQuote(ctx context.Context, symbol string) (model.Quote, error)
}

// NewLimiter allows perMinute requests per minute with the given burst.
// The limiter starts full, so the first burst goes out immediately.
func NewLimiter(perMinute, burst int) *rate.Limiter {
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst)
}

// Limited gates a Fetcher behind a rate limiter so polling stays under the provider's quota.
type Limited struct {
	Next    Fetcher
	Limiter *rate.Limiter
}

// FetchQuote waits for a token, then delegates. A cancelled wait is a per-symbol failure.
func (l *Limited) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	if l.Limiter != nil {
		if err := l.Limiter.Wait(ctx); err != nil {
			return model.Quote{}, &FetchError{Symbol: symbol, Err: err}
		}
	}
	return l.Next.FetchQuote(ctx, symbol)
}

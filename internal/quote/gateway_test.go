package quote_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quote"
)

type payloadFunc func(ctx context.Context, symbol string) ([]byte, error)

func (f payloadFunc) QuotePayload(ctx context.Context, symbol string) ([]byte, error) {
	return f(ctx, symbol)
}

func TestGateway_FetchQuote(t *testing.T) {
	t.Run("normalizes the payload", func(t *testing.T) {
		gw := quote.NewGateway(payloadFunc(func(_ context.Context, symbol string) ([]byte, error) {
			assert.Equal(t, "AAPL", symbol)
			return []byte(`{"close":"200","percent_change":"1.5"}`), nil
		}))

		q, err := gw.FetchQuote(t.Context(), "AAPL")

		require.NoError(t, err)
		assert.Equal(t, "AAPL", q.Symbol)
		assert.Equal(t, "200", q.Close.Decimal.String())
		assert.False(t, q.AsOf.IsZero())
	})

	t.Run("transport failure is tagged with the symbol", func(t *testing.T) {
		gw := quote.NewGateway(payloadFunc(func(context.Context, string) ([]byte, error) {
			return nil, apperrors.ErrBackendUnavailable
		}))

		_, err := gw.FetchQuote(t.Context(), "MSFT")

		var fetchErr *quote.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, "MSFT", fetchErr.Symbol)
		assert.ErrorIs(t, err, apperrors.ErrBackendUnavailable)
	})

	t.Run("malformed payload is tagged with the symbol", func(t *testing.T) {
		gw := quote.NewGateway(payloadFunc(func(context.Context, string) ([]byte, error) {
			return []byte(`{}`), nil
		}))

		_, err := gw.FetchQuote(t.Context(), "TSLA")

		var fetchErr *quote.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, "TSLA", fetchErr.Symbol)
		assert.ErrorIs(t, err, apperrors.ErrMalformedQuote)
	})
}

type countingFetcher struct {
	calls atomic.Int32
}

func (c *countingFetcher) FetchQuote(_ context.Context, symbol string) (model.Quote, error) {
	c.calls.Add(1)
	return model.Quote{Symbol: symbol}, nil
}

func TestLimited(t *testing.T) {
	t.Run("burst passes without waiting", func(t *testing.T) {
		next := &countingFetcher{}
		limited := &quote.Limited{Next: next, Limiter: quote.NewLimiter(60, 3)}

		start := time.Now()
		for range 3 {
			_, err := limited.FetchQuote(t.Context(), "AAPL")
			require.NoError(t, err)
		}

		assert.Less(t, time.Since(start), 500*time.Millisecond)
		assert.Equal(t, int32(3), next.calls.Load())
	})

	t.Run("exhausted limiter fails the symbol when the context ends", func(t *testing.T) {
		next := &countingFetcher{}
		limited := &quote.Limited{Next: next, Limiter: quote.NewLimiter(1, 1)}

		_, err := limited.FetchQuote(t.Context(), "AAPL")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()
		_, err = limited.FetchQuote(ctx, "MSFT")

		var fetchErr *quote.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, "MSFT", fetchErr.Symbol)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.Equal(t, int32(1), next.calls.Load())
	})

	t.Run("nil limiter delegates", func(t *testing.T) {
		next := &countingFetcher{}
		limited := &quote.Limited{Next: next}

		_, err := limited.FetchQuote(t.Context(), "AAPL")

		require.NoError(t, err)
		assert.Equal(t, int32(1), next.calls.Load())
	})
}

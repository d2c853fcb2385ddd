package quotesync_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/logging"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quotesync"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/testutil"
)

func staticLoader(symbols ...string) quotesync.Loader[[]string] {
	return func(context.Context) ([]string, []string, error) {
		return symbols, symbols, nil
	}
}

func newSubscription(loader quotesync.Loader[[]string], stub *testutil.StubGateway) *quotesync.Subscription[[]string] {
	orch := quotesync.NewOrchestrator(stub, 0, logging.Discard())
	return quotesync.NewSubscription("test", loader, orch, logging.Discard())
}

// TestSubscription_PartialFailure tests that a failing symbol does not affect the others.
//
// WHY: A rate-limited or unknown symbol is routine. The remaining symbols must still
// show fresh quotes and a symbol that was known before keeps its last quote.
func TestSubscription_PartialFailure(t *testing.T) {
	t.Run("failed symbol is absent, others present", func(t *testing.T) {
		stub := testutil.NewStubGateway().
			SetQuote("AAPL", "200", "1").
			SetError("MSFT", errors.New("rate limited"))
		sub := newSubscription(staticLoader("AAPL", "MSFT"), stub)

		require.True(t, sub.Refresh(t.Context()))

		snap := sub.Snapshot()
		assert.NoError(t, snap.Err)
		assert.Contains(t, snap.Quotes, "AAPL")
		assert.NotContains(t, snap.Quotes, "MSFT")
		assert.Equal(t, []string{"AAPL", "MSFT"}, snap.Data)
	})

	t.Run("failed symbol keeps its previous quote", func(t *testing.T) {
		stub := testutil.NewStubGateway().
			SetQuote("AAPL", "200", "1").
			SetQuote("MSFT", "100", "2")
		sub := newSubscription(staticLoader("AAPL", "MSFT"), stub)
		require.True(t, sub.Refresh(t.Context()))

		stub.SetQuote("AAPL", "210", "5").SetError("MSFT", errors.New("rate limited"))
		require.True(t, sub.Refresh(t.Context()))

		snap := sub.Snapshot()
		assert.True(t, snap.Quotes["AAPL"].Price().Equal(decimal.NewFromInt(210)))
		assert.True(t, snap.Quotes["MSFT"].Price().Equal(decimal.NewFromInt(100)))
	})

	t.Run("all symbols failing records quotes unavailable", func(t *testing.T) {
		stub := testutil.NewStubGateway().SetQuote("AAPL", "200", "1")
		sub := newSubscription(staticLoader("AAPL"), stub)
		require.True(t, sub.Refresh(t.Context()))

		stub.SetError("AAPL", errors.New("down"))
		require.True(t, sub.Refresh(t.Context()))

		snap := sub.Snapshot()
		assert.ErrorIs(t, snap.Err, apperrors.ErrQuotesUnavailable)
		assert.Contains(t, snap.Quotes, "AAPL", "previous quote should be kept")
		assert.Equal(t, "no quotes available", snap.Status().Error)
	})

	t.Run("symbols that left the data drop their quotes", func(t *testing.T) {
		stub := testutil.NewStubGateway().SetQuote("AAPL", "1", "0").SetQuote("MSFT", "2", "0")
		var second atomic.Bool
		loader := func(context.Context) ([]string, []string, error) {
			if second.Load() {
				return []string{"MSFT"}, []string{"MSFT"}, nil
			}
			return []string{"AAPL", "MSFT"}, []string{"AAPL", "MSFT"}, nil
		}
		sub := newSubscription(loader, stub)
		require.True(t, sub.Refresh(t.Context()))

		second.Store(true)
		require.True(t, sub.Refresh(t.Context()))

		assert.NotContains(t, sub.Snapshot().Quotes, "AAPL")
	})
}

func TestSubscription_LoaderFailure(t *testing.T) {
	stub := testutil.NewStubGateway().SetQuote("AAPL", "200", "1")
	var fail atomic.Bool
	loader := func(context.Context) ([]string, []string, error) {
		if fail.Load() {
			return nil, nil, apperrors.ErrBackendUnavailable
		}
		return []string{"AAPL"}, []string{"AAPL"}, nil
	}
	sub := newSubscription(loader, stub)
	require.True(t, sub.Refresh(t.Context()))

	fail.Store(true)
	require.True(t, sub.Refresh(t.Context()))

	snap := sub.Snapshot()
	assert.ErrorIs(t, snap.Err, apperrors.ErrBackendUnavailable)
	assert.Nil(t, snap.Data)
	assert.Empty(t, snap.Quotes)
	assert.Equal(t, uint64(2), snap.Generation)
}

// TestSubscription_Staleness tests that an older cycle finishing last is discarded.
//
// WHY: Polling cycles overlap when the provider is slow. Whatever cycle started last
// must win, even if an earlier one completes after it.
func TestSubscription_Staleness(t *testing.T) {
	stub := testutil.NewStubGateway().SetQuote("OLD", "1", "0").SetQuote("NEW", "2", "0")
	release := stub.Hold("OLD")
	defer release()

	var loads atomic.Int32
	loader := func(context.Context) ([]string, []string, error) {
		if loads.Add(1) == 1 {
			return []string{"OLD"}, []string{"OLD"}, nil
		}
		return []string{"NEW"}, []string{"NEW"}, nil
	}
	sub := newSubscription(loader, stub)

	firstApplied := make(chan bool, 1)
	go func() { firstApplied <- sub.Refresh(context.Background()) }()
	require.Eventually(t, func() bool { return stub.Calls("OLD") == 1 }, time.Second, time.Millisecond)

	require.True(t, sub.Refresh(t.Context()), "newer cycle should apply")

	release()
	assert.False(t, <-firstApplied, "older cycle should be discarded")

	snap := sub.Snapshot()
	assert.Equal(t, []string{"NEW"}, snap.Data)
	assert.Contains(t, snap.Quotes, "NEW")
	assert.NotContains(t, snap.Quotes, "OLD")
	assert.Equal(t, uint64(2), snap.Generation)
}

// TestSubscription_CancelledContext tests that a cycle whose caller went away changes nothing.
//
// WHY: A client disconnecting mid-refresh makes the loader fail with context.Canceled.
// That is not a backend failure and must not wipe the shared snapshot for everyone.
func TestSubscription_CancelledContext(t *testing.T) {
	t.Run("cancelled before start", func(t *testing.T) {
		stub := testutil.NewStubGateway().SetQuote("AAPL", "200", "1")
		sub := newSubscription(staticLoader("AAPL"), stub)
		require.True(t, sub.Refresh(t.Context()))

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		assert.False(t, sub.Refresh(ctx))
		snap := sub.Snapshot()
		assert.NoError(t, snap.Err)
		assert.Equal(t, []string{"AAPL"}, snap.Data)
		assert.Contains(t, snap.Quotes, "AAPL")
		assert.Equal(t, uint64(1), snap.Generation)
	})

	t.Run("cancelled while loading", func(t *testing.T) {
		stub := testutil.NewStubGateway().SetQuote("AAPL", "200", "1")
		ctx, cancel := context.WithCancel(t.Context())
		var loads atomic.Int32
		loader := func(loadCtx context.Context) ([]string, []string, error) {
			if loads.Add(1) == 2 {
				cancel()
				return nil, nil, loadCtx.Err()
			}
			return []string{"AAPL"}, []string{"AAPL"}, nil
		}
		sub := newSubscription(loader, stub)
		require.True(t, sub.Refresh(t.Context()))

		assert.False(t, sub.Refresh(ctx))
		snap := sub.Snapshot()
		assert.NoError(t, snap.Err)
		assert.Equal(t, []string{"AAPL"}, snap.Data)
		assert.Contains(t, snap.Quotes, "AAPL")
	})
}

// TestSubscription_Close tests that nothing is applied after teardown.
//
// WHY: A view that was closed must never be written to again, even by a cycle that
// was already waiting on the network when Close was called.
func TestSubscription_Close(t *testing.T) {
	t.Run("in-flight cycle is discarded", func(t *testing.T) {
		stub := testutil.NewStubGateway().SetQuote("AAPL", "200", "1")
		release := stub.Hold("AAPL")
		defer release()
		sub := newSubscription(staticLoader("AAPL"), stub)

		applied := make(chan bool, 1)
		go func() { applied <- sub.Refresh(context.Background()) }()
		require.Eventually(t, func() bool { return stub.Calls("AAPL") == 1 }, time.Second, time.Millisecond)

		sub.Close()
		release()

		assert.False(t, <-applied)
		snap := sub.Snapshot()
		assert.Zero(t, snap.Generation)
		assert.Empty(t, snap.Quotes)
		assert.True(t, sub.Closed())
	})

	t.Run("refresh after close does nothing", func(t *testing.T) {
		stub := testutil.NewStubGateway().SetQuote("AAPL", "200", "1")
		sub := newSubscription(staticLoader("AAPL"), stub)
		sub.Close()

		assert.False(t, sub.Refresh(t.Context()))
		assert.Zero(t, stub.TotalCalls())
	})

	t.Run("close stops polling", func(t *testing.T) {
		scheduler := newScheduler(t)
		stub := testutil.NewStubGateway().SetQuote("AAPL", "200", "1")
		sub := newSubscription(staticLoader("AAPL"), stub)

		require.NoError(t, sub.Start(scheduler, 20*time.Millisecond))
		require.Eventually(t, func() bool { return sub.Snapshot().Generation >= 2 }, 2*time.Second, 5*time.Millisecond)

		sub.Close()
		frozen := sub.Snapshot()
		time.Sleep(100 * time.Millisecond)

		assert.Equal(t, frozen.Generation, sub.Snapshot().Generation)
		assert.Equal(t, frozen.UpdatedAt, sub.Snapshot().UpdatedAt)
	})
}

func TestSubscription_Start(t *testing.T) {
	scheduler := newScheduler(t)
	stub := testutil.NewStubGateway().SetQuote("AAPL", "200", "1")
	sub := newSubscription(staticLoader("AAPL"), stub)
	t.Cleanup(sub.Close)

	require.NoError(t, sub.Start(scheduler, time.Hour))
	require.NoError(t, sub.Start(scheduler, time.Hour)) // already running

	require.Eventually(t, func() bool { return sub.Snapshot().Generation == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, stub.Calls("AAPL"))
	assert.Equal(t, "test", sub.Name())
}

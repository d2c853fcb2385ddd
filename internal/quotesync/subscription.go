package quotesync

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// Loader produces the data a subscription tracks together with the symbols that need quotes.
type Loader[T any] func(ctx context.Context) (T, []string, error)

// BatchFetcher fetches quotes for many symbols. *Orchestrator satisfies it.
type BatchFetcher interface {
	FetchAll(ctx context.Context, symbols []string) map[string]model.Quote
}

// Snapshot is the last applied state of a subscription.
type Snapshot[T any] struct {
	Data       T
	Quotes     map[string]model.Quote
	Generation uint64 // token generation of the cycle that produced this state, 0 before the first
	UpdatedAt  time.Time
	Err        error
}

// Status condenses the snapshot metadata for API responses.
func (s Snapshot[T]) Status() model.SyncStatus {
	status := model.SyncStatus{Generation: s.Generation, UpdatedAt: s.UpdatedAt}
	if s.Err != nil {
		status.Error = s.Err.Error()
	}
	return status
}

// Subscription keeps one polled view (holdings, a watchlist, the ticker) fresh.
// Each refresh loads the data, fetches its quotes and applies the result only if no
// newer refresh started in the meantime and the subscription is still open.
type Subscription[T any] struct {
	name  string
	load  Loader[T]
	fetch BatchFetcher
	guard GenerationGuard
	log   *slog.Logger
	now   func() time.Time

	mu        sync.Mutex // guards snap and the apply step
	snap      Snapshot[T]
	scheduler *Scheduler
	handle    *Handle
}

// NewSubscription creates a subscription. It does nothing until Refresh or Start is called.
func NewSubscription[T any](name string, load Loader[T], fetch BatchFetcher, log *slog.Logger) *Subscription[T] {
	return &Subscription[T]{
		name:  name,
		load:  load,
		fetch: fetch,
		log:   log.With("subscription", name),
		now:   time.Now,
		snap:  Snapshot[T]{Quotes: map[string]model.Quote{}},
	}
}

// Name returns the subscription's name.
func (s *Subscription[T]) Name() string {
	return s.name
}

// Refresh runs one fetch cycle and reports whether its result was applied.
//
// A loader failure resets the snapshot to empty data and quotes with the error recorded.
// A symbol whose quote fails keeps its previous quote. When every symbol fails the
// snapshot carries ErrQuotesUnavailable. A cycle whose ctx ends before it applies
// leaves the snapshot untouched.
func (s *Subscription[T]) Refresh(ctx context.Context) bool {
	if s.guard.Cancelled() || ctx.Err() != nil {
		return false
	}
	token := s.guard.Begin()

	data, symbols, err := s.load(ctx)
	if ctx.Err() != nil {
		s.log.Debug("dropping cycle whose context ended", "generation", token.Generation(), "error", ctx.Err())
		return false
	}
	if err != nil {
		return s.apply(token, func(snap *Snapshot[T]) {
			var zero T
			snap.Data = zero
			snap.Quotes = map[string]model.Quote{}
			snap.Err = err
		})
	}
	if !s.guard.IsCurrent(token) {
		s.log.Debug("discarding stale cycle before quote fetch", "generation", token.Generation())
		return false
	}

	fresh := s.fetch.FetchAll(ctx, symbols)
	if ctx.Err() != nil {
		s.log.Debug("dropping cycle whose context ended", "generation", token.Generation(), "error", ctx.Err())
		return false
	}

	return s.apply(token, func(snap *Snapshot[T]) {
		quotes := make(map[string]model.Quote, len(symbols))
		for _, symbol := range symbols {
			if q, ok := fresh[symbol]; ok {
				quotes[symbol] = q
			} else if q, ok := snap.Quotes[symbol]; ok {
				quotes[symbol] = q
			}
		}
		snap.Data = data
		snap.Quotes = quotes
		snap.Err = nil
		if len(fresh) == 0 && len(dedupe(symbols)) > 0 {
			snap.Err = apperrors.ErrQuotesUnavailable
		}
	})
}

// apply writes the cycle's result if token is still current. The check and the write
// happen under the same lock so a newer cycle or Close cannot slip in between.
func (s *Subscription[T]) apply(token Token, mutate func(*Snapshot[T])) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.guard.IsCurrent(token) {
		s.log.Debug("discarding stale cycle", "generation", token.Generation())
		return false
	}
	mutate(&s.snap)
	s.snap.Generation = token.Generation()
	s.snap.UpdatedAt = s.now().UTC()

	if s.snap.Err != nil {
		s.log.Warn("refresh applied with error", "generation", token.Generation(), "error", s.snap.Err)
	} else {
		s.log.Debug("refresh applied", "generation", token.Generation(), "quotes", len(s.snap.Quotes))
	}
	return true
}

// Start polls on the scheduler every interval, beginning with an immediate refresh.
// Calling Start on a running subscription is a no-op.
func (s *Subscription[T]) Start(scheduler *Scheduler, interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle != nil || s.guard.Cancelled() {
		return nil
	}

	handle, err := scheduler.Every(interval, func(ctx context.Context) {
		s.Refresh(ctx)
	})
	if err != nil {
		return err
	}
	s.scheduler = scheduler
	s.handle = handle
	return nil
}

// Close stops polling and invalidates every in-flight and future cycle. It returns
// only after an apply that was already running has finished, so no state changes
// after Close returns.
func (s *Subscription[T]) Close() {
	s.guard.CancelAll()

	s.mu.Lock()
	scheduler, handle := s.scheduler, s.handle
	s.handle = nil
	s.mu.Unlock()

	if handle != nil {
		scheduler.Stop(handle)
	}
}

// Closed reports whether Close was called.
func (s *Subscription[T]) Closed() bool {
	return s.guard.Cancelled()
}

// Snapshot returns a copy of the last applied state.
func (s *Subscription[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snap
	snap.Quotes = maps.Clone(s.snap.Quotes)
	return snap
}

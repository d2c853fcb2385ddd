package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/backend"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/heatmap"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quotesync"
)

// WatchlistService forwards watchlist edits to the backend and keeps one live board
// per watched list.
type WatchlistService struct {
	client    *backend.Client
	quotes    quotesync.BatchFetcher
	scheduler *quotesync.Scheduler // nil disables polling; boards refresh on edits only
	interval  time.Duration
	log       *slog.Logger

	mu     sync.Mutex
	boards map[int64]*quotesync.Subscription[model.Watchlist]
}

// NewWatchlistService creates a WatchlistService. Boards created by Watch are polled on
// scheduler every interval.
func NewWatchlistService(client *backend.Client, quotes quotesync.BatchFetcher, scheduler *quotesync.Scheduler, interval time.Duration, log *slog.Logger) *WatchlistService {
	return &WatchlistService{
		client:    client,
		quotes:    quotes,
		scheduler: scheduler,
		interval:  interval,
		log:       log,
		boards:    make(map[int64]*quotesync.Subscription[model.Watchlist]),
	}
}

// Watchlists returns all watchlists of the user.
func (s *WatchlistService) Watchlists(ctx context.Context) ([]model.Watchlist, error) {
	watchlists, err := s.client.Watchlists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveWatchlists, err)
	}
	return watchlists, nil
}

// Create creates an empty watchlist.
func (s *WatchlistService) Create(ctx context.Context, name string) (model.Watchlist, error) {
	watchlist, err := s.client.CreateWatchlist(ctx, strings.TrimSpace(name))
	if err != nil {
		return model.Watchlist{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToUpdateWatchlist, err)
	}
	return watchlist, nil
}

// Delete removes a watchlist and tears down its board if one is live.
func (s *WatchlistService) Delete(ctx context.Context, id int64) error {
	if err := validateWatchlistID(id); err != nil {
		return err
	}
	if err := s.client.DeleteWatchlist(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToUpdateWatchlist, err)
	}
	_ = s.Unwatch(id)
	return nil
}

// AddSymbol adds symbol to the watchlist and refreshes its board.
func (s *WatchlistService) AddSymbol(ctx context.Context, id int64, symbol string) (model.Watchlist, error) {
	return s.edit(ctx, id, symbol, s.client.AddWatchlistSymbol)
}

// RemoveSymbol removes symbol from the watchlist and refreshes its board.
func (s *WatchlistService) RemoveSymbol(ctx context.Context, id int64, symbol string) (model.Watchlist, error) {
	return s.edit(ctx, id, symbol, s.client.RemoveWatchlistSymbol)
}

func (s *WatchlistService) edit(
	ctx context.Context,
	id int64,
	symbol string,
	apply func(context.Context, int64, string) (model.Watchlist, error),
) (model.Watchlist, error) {
	if err := validateWatchlistID(id); err != nil {
		return model.Watchlist{}, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.Watchlist{}, apperrors.ErrInvalidSymbol
	}

	watchlist, err := apply(ctx, id, symbol)
	if err != nil {
		return model.Watchlist{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToUpdateWatchlist, err)
	}

	s.mu.Lock()
	sub := s.boards[id]
	s.mu.Unlock()
	if sub != nil {
		refreshDetached(ctx, sub)
	}
	return watchlist, nil
}

// Watch returns the live board subscription of a watchlist, creating it on first use.
// A new board is refreshed once before Watch returns.
func (s *WatchlistService) Watch(ctx context.Context, id int64) (*quotesync.Subscription[model.Watchlist], error) {
	if err := validateWatchlistID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	sub, ok := s.boards[id]
	if !ok {
		sub = quotesync.NewSubscription(fmt.Sprintf("watchlist-%d", id), s.loader(id), s.quotes, s.log)
		s.boards[id] = sub
	}
	s.mu.Unlock()

	if ok {
		return sub, nil
	}

	refreshDetached(ctx, sub)
	if s.scheduler != nil {
		if err := sub.Start(s.scheduler, s.interval); err != nil {
			s.log.Warn("watchlist board not polled", "watchlist", id, "error", err)
		}
	}
	return sub, nil
}

// Board returns the live heatmap board of a watchlist.
// An unknown watchlist is not kept subscribed.
func (s *WatchlistService) Board(ctx context.Context, id int64) (model.WatchlistBoard, error) {
	sub, err := s.Watch(ctx, id)
	if err != nil {
		return model.WatchlistBoard{}, err
	}

	snap := sub.Snapshot()
	if errors.Is(snap.Err, apperrors.ErrWatchlistNotFound) {
		_ = s.Unwatch(id)
		return model.WatchlistBoard{}, snap.Err
	}

	return model.WatchlistBoard{
		Watchlist: snap.Data,
		Tiles:     heatmap.Tiles(snap.Data.Symbols, snap.Quotes),
		Quotes:    snap.Quotes,
		Status:    snap.Status(),
	}, nil
}

// Unwatch tears down the board of a watchlist.
func (s *WatchlistService) Unwatch(id int64) error {
	s.mu.Lock()
	sub, ok := s.boards[id]
	delete(s.boards, id)
	s.mu.Unlock()

	if !ok {
		return apperrors.ErrSubscriptionNotFound
	}
	sub.Close()
	return nil
}

// Watched returns the IDs of the watchlists with a live board.
func (s *WatchlistService) Watched() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.boards))
	for id := range s.boards {
		ids = append(ids, id)
	}
	return ids
}

// Close tears down every board.
func (s *WatchlistService) Close() {
	s.mu.Lock()
	boards := s.boards
	s.boards = make(map[int64]*quotesync.Subscription[model.Watchlist])
	s.mu.Unlock()

	for _, sub := range boards {
		sub.Close()
	}
}

// loader picks watchlist id out of the user's watchlists.
func (s *WatchlistService) loader(id int64) quotesync.Loader[model.Watchlist] {
	return func(ctx context.Context) (model.Watchlist, []string, error) {
		watchlists, err := s.client.Watchlists(ctx)
		if err != nil {
			return model.Watchlist{}, nil, err
		}
		for _, w := range watchlists {
			if w.ID == id {
				return w, w.Symbols, nil
			}
		}
		return model.Watchlist{}, nil, fmt.Errorf("%w: %d", apperrors.ErrWatchlistNotFound, id)
	}
}

func validateWatchlistID(id int64) error {
	if id <= 0 {
		return apperrors.ErrInvalidWatchlistID
	}
	return nil
}

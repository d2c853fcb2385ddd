package quotesync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quote"
)

// Orchestrator fetches a batch of symbols concurrently and keeps only the successes.
type Orchestrator struct {
	fetcher        quote.Fetcher
	maxConcurrency int
	log            *slog.Logger
}

// NewOrchestrator creates an Orchestrator. maxConcurrency <= 0 means one goroutine per symbol.
func NewOrchestrator(fetcher quote.Fetcher, maxConcurrency int, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		fetcher:        fetcher,
		maxConcurrency: maxConcurrency,
		log:            log,
	}
}

// FetchAll requests every distinct symbol at once and waits until all requests settled.
// The result holds only the symbols that succeeded. Failures, including panics inside
// the fetcher, are logged and never abort the rest of the batch.
func (o *Orchestrator) FetchAll(ctx context.Context, symbols []string) map[string]model.Quote {
	unique := dedupe(symbols)
	if len(unique) == 0 {
		return map[string]model.Quote{}
	}

	type result struct {
		quote model.Quote
		ok    bool
	}
	results := make([]result, len(unique))

	var g errgroup.Group
	if o.maxConcurrency > 0 {
		g.SetLimit(o.maxConcurrency)
	}
	for i, symbol := range unique {
		g.Go(func() error {
			q, err := o.fetchOne(ctx, symbol)
			if err != nil {
				o.log.Warn("quote fetch failed", "symbol", symbol, "error", err)
				return nil // skip the symbol, keep the batch
			}
			results[i] = result{quote: q, ok: true}
			return nil
		})
	}
	_ = g.Wait()

	quotes := make(map[string]model.Quote, len(unique))
	for i, symbol := range unique {
		if results[i].ok {
			quotes[symbol] = results[i].quote
		}
	}
	o.log.Debug("quote batch settled", "requested", len(unique), "fetched", len(quotes))
	return quotes
}

func (o *Orchestrator) fetchOne(ctx context.Context, symbol string) (q model.Quote, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &quote.FetchError{Symbol: symbol, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return o.fetcher.FetchQuote(ctx, symbol)
}

// dedupe drops blank and repeated symbols, keeping first-seen order.
func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if strings.TrimSpace(s) == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

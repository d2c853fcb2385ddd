package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quote"
)

// StubGateway is a scripted quote fetcher. Each symbol can be given a quote, an error,
// a delay, a gate that holds the call until released, or a panic.
// Symbols with no script fail with ErrQuoteProvider.
type StubGateway struct {
	mu     sync.Mutex
	quotes map[string]model.Quote
	errs   map[string]error
	delays map[string]time.Duration
	gates  map[string]chan struct{}
	panics map[string]bool
	calls  map[string]int
}

// NewStubGateway creates an empty StubGateway.
func NewStubGateway() *StubGateway {
	return &StubGateway{
		quotes: make(map[string]model.Quote),
		errs:   make(map[string]error),
		delays: make(map[string]time.Duration),
		gates:  make(map[string]chan struct{}),
		panics: make(map[string]bool),
		calls:  make(map[string]int),
	}
}

// SetQuote scripts a successful quote. close and pct are decimal strings; an empty
// close yields a quote with an unknown price.
func (s *StubGateway) SetQuote(symbol, close, pct string) *StubGateway {
	q := model.Quote{Symbol: symbol, PercentChange: decimal.RequireFromString(pct), AsOf: time.Now().UTC()}
	if close != "" {
		q.Close = decimal.NewNullDecimal(decimal.RequireFromString(close))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[symbol] = q
	delete(s.errs, symbol)
	return s
}

// SetError scripts a failure for symbol.
func (s *StubGateway) SetError(symbol string, err error) *StubGateway {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[symbol] = err
	return s
}

// SetDelay makes calls for symbol sleep before answering.
func (s *StubGateway) SetDelay(symbol string, d time.Duration) *StubGateway {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[symbol] = d
	return s
}

// SetPanic makes calls for symbol panic.
func (s *StubGateway) SetPanic(symbol string) *StubGateway {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panics[symbol] = true
	return s
}

// Hold blocks calls for symbol until the returned release function is called.
func (s *StubGateway) Hold(symbol string) (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gates[symbol] = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(gate)
			s.mu.Lock()
			if s.gates[symbol] == gate {
				delete(s.gates, symbol)
			}
			s.mu.Unlock()
		})
	}
}

// Calls returns how many times symbol was requested.
func (s *StubGateway) Calls(symbol string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[symbol]
}

// TotalCalls returns the number of requests across all symbols.
func (s *StubGateway) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// FetchQuote implements the quote fetcher contract.
func (s *StubGateway) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	s.mu.Lock()
	s.calls[symbol]++
	q, hasQuote := s.quotes[symbol]
	err := s.errs[symbol]
	delay := s.delays[symbol]
	gate := s.gates[symbol]
	shouldPanic := s.panics[symbol]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return model.Quote{}, &quote.FetchError{Symbol: symbol, Err: ctx.Err()}
		}
	}
	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return model.Quote{}, &quote.FetchError{Symbol: symbol, Err: ctx.Err()}
		}
	}
	if shouldPanic {
		panic("stub gateway: scripted panic for " + symbol)
	}
	if err != nil {
		return model.Quote{}, &quote.FetchError{Symbol: symbol, Err: err}
	}
	if !hasQuote {
		return model.Quote{}, &quote.FetchError{Symbol: symbol, Err: apperrors.ErrQuoteProvider}
	}
	return q, nil
}

// Package quotesync keeps polled quote data consistent: it fans quote requests out per
// symbol, schedules periodic refreshes and discards results that were superseded by a
// newer cycle or arrived after teardown.
package quotesync

import "sync/atomic"

// Token identifies one fetch cycle. It is captured when the cycle starts and never changes.
type Token struct {
	generation uint64
}

// Generation returns the counter value the token was issued with.
func (t Token) Generation() uint64 {
	return t.generation
}

// GenerationGuard decides whether the results of a fetch cycle may still be applied.
// Only the most recently started cycle is current, and after CancelAll no cycle ever is.
// The zero value is ready to use.
type GenerationGuard struct {
	live      atomic.Uint64
	cancelled atomic.Bool
}

// Begin starts a new cycle and returns its token. Any earlier token stops being current.
func (g *GenerationGuard) Begin() Token {
	return Token{generation: g.live.Add(1)}
}

// IsCurrent reports whether t belongs to the latest cycle and the guard is still live.
func (g *GenerationGuard) IsCurrent(t Token) bool {
	return !g.cancelled.Load() && t.generation == g.live.Load()
}

// CancelAll tears the guard down. In-flight and future cycles are all stale afterwards.
func (g *GenerationGuard) CancelAll() {
	g.cancelled.Store(true)
	g.live.Add(1)
}

// Cancelled reports whether CancelAll has been called.
func (g *GenerationGuard) Cancelled() bool {
	return g.cancelled.Load()
}

// Generation returns the live counter value.
func (g *GenerationGuard) Generation() uint64 {
	return g.live.Load()
}

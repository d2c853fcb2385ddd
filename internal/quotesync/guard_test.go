package quotesync_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quotesync"
)

func TestGenerationGuard(t *testing.T) {
	t.Run("only the latest token is current", func(t *testing.T) {
		var g quotesync.GenerationGuard

		first := g.Begin()
		assert.True(t, g.IsCurrent(first))

		second := g.Begin()
		assert.False(t, g.IsCurrent(first))
		assert.True(t, g.IsCurrent(second))
		assert.Greater(t, second.Generation(), first.Generation())
	})

	t.Run("cancel invalidates current and future tokens", func(t *testing.T) {
		var g quotesync.GenerationGuard

		inFlight := g.Begin()
		g.CancelAll()

		assert.True(t, g.Cancelled())
		assert.False(t, g.IsCurrent(inFlight))
		assert.False(t, g.IsCurrent(g.Begin()))
	})

	t.Run("concurrent begins never reuse a generation", func(t *testing.T) {
		var g quotesync.GenerationGuard
		const workers = 50

		tokens := make(chan quotesync.Token, workers)
		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tokens <- g.Begin()
			}()
		}
		wg.Wait()
		close(tokens)

		seen := make(map[uint64]bool)
		for tok := range tokens {
			assert.False(t, seen[tok.Generation()], "generation %d issued twice", tok.Generation())
			seen[tok.Generation()] = true
		}
		assert.Len(t, seen, workers)
		assert.Equal(t, uint64(workers), g.Generation())
	})
}

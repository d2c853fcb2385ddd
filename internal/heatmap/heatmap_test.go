package heatmap_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/heatmap"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// TestIntensity tests the heatmap opacity curve.
//
// WHY: Tiles must stay readable. Opacity grows with the size of the move, stays within
// its bounds for any input, and treats gains and losses of equal size alike.
func TestIntensity(t *testing.T) {
	t.Run("known points", func(t *testing.T) {
		assert.InDelta(t, 0.2, heatmap.Intensity(0), 1e-9)
		assert.InDelta(t, 0.45, heatmap.Intensity(2.5), 1e-9)
		assert.InDelta(t, 0.45, heatmap.Intensity(-2.5), 1e-9)
		assert.InDelta(t, 0.85, heatmap.Intensity(6.5), 1e-9)
		assert.InDelta(t, 0.85, heatmap.Intensity(40), 1e-9)
	})

	t.Run("range holds for extreme inputs", func(t *testing.T) {
		inputs := []float64{math.NaN(), math.Inf(1), math.Inf(-1), -math.MaxFloat64, math.MaxFloat64, 1e-300}
		for _, in := range inputs {
			got := heatmap.Intensity(in)
			assert.GreaterOrEqual(t, got, 0.2, "input %v", in)
			assert.LessOrEqual(t, got, 0.85, "input %v", in)
		}
	})

	t.Run("monotonic in magnitude", func(t *testing.T) {
		prev := heatmap.Intensity(0)
		for pct := 0.1; pct <= 20; pct += 0.1 {
			got := heatmap.Intensity(pct)
			assert.GreaterOrEqual(t, got, prev, "pct %v", pct)
			assert.Equal(t, got, heatmap.Intensity(-pct))
			prev = got
		}
	})
}

func TestChannelAndColor(t *testing.T) {
	assert.Equal(t, model.ChannelGain, heatmap.ChannelFor(1.2))
	assert.Equal(t, model.ChannelGain, heatmap.ChannelFor(0))
	assert.Equal(t, model.ChannelLoss, heatmap.ChannelFor(-0.01))

	assert.Equal(t, "rgba(31,122,79,0.20)", heatmap.Color(0))
	assert.Equal(t, "rgba(31,122,79,0.45)", heatmap.Color(2.5))
	assert.Equal(t, "rgba(182,59,59,0.85)", heatmap.Color(-12))
}

func TestTiles(t *testing.T) {
	quotes := map[string]model.Quote{
		"AAPL": {Symbol: "AAPL", Close: decimal.NewNullDecimal(decimal.NewFromInt(200)), PercentChange: decimal.RequireFromString("3")},
		"TSLA": {Symbol: "TSLA", Close: decimal.NewNullDecimal(decimal.NewFromInt(150)), PercentChange: decimal.RequireFromString("-1")},
	}

	tiles := heatmap.Tiles([]string{"TSLA", "NONE", "AAPL"}, quotes)

	require.Len(t, tiles, 3)
	assert.Equal(t, "TSLA", tiles[0].Symbol)
	assert.Equal(t, model.ChannelLoss, tiles[0].Channel)
	assert.InDelta(t, 0.3, tiles[0].Intensity, 1e-9)

	assert.Equal(t, "NONE", tiles[1].Symbol)
	assert.False(t, tiles[1].HasQuote)
	assert.Equal(t, model.ChannelGain, tiles[1].Channel)
	assert.InDelta(t, 0.2, tiles[1].Intensity, 1e-9)

	assert.True(t, tiles[2].HasQuote)
	assert.True(t, tiles[2].Price.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "rgba(31,122,79,0.50)", tiles[2].Color)
}

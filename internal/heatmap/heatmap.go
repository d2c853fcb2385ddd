// Package heatmap maps percent changes to tile colors for the movers and watchlist heatmaps.
package heatmap

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

const (
	baseIntensity = 0.2
	maxIntensity  = 0.85
)

// Intensity returns min(0.85, |pct|/10 + 0.2). NaN is treated as no change.
// The result is always within [0.2, 0.85].
func Intensity(pct float64) float64 {
	if math.IsNaN(pct) {
		return baseIntensity
	}
	return math.Min(maxIntensity, math.Abs(pct)/10+baseIntensity)
}

// ChannelFor selects the gain channel for non-negative changes and the loss channel otherwise.
func ChannelFor(pct float64) model.Channel {
	if pct < 0 {
		return model.ChannelLoss
	}
	return model.ChannelGain
}

// Color returns the CSS rgba color of a tile for pct.
func Color(pct float64) string {
	alpha := Intensity(pct)
	if ChannelFor(pct) == model.ChannelLoss {
		return fmt.Sprintf("rgba(182,59,59,%.2f)", alpha)
	}
	return fmt.Sprintf("rgba(31,122,79,%.2f)", alpha)
}

// Tile builds the tile for one symbol.
func Tile(symbol string, price, pct decimal.Decimal) model.HeatmapTile {
	f := pct.InexactFloat64()
	return model.HeatmapTile{
		Symbol:        symbol,
		Price:         price,
		PercentChange: pct,
		Intensity:     Intensity(f),
		Channel:       ChannelFor(f),
		Color:         Color(f),
		HasQuote:      true,
	}
}

// Tiles builds one tile per symbol, in order. A symbol without a quote is shown as
// unchanged with HasQuote false.
func Tiles(symbols []string, quotes map[string]model.Quote) []model.HeatmapTile {
	tiles := make([]model.HeatmapTile, 0, len(symbols))
	for _, symbol := range symbols {
		q, ok := quotes[symbol]
		if !ok {
			tile := Tile(symbol, decimal.Zero, decimal.Zero)
			tile.HasQuote = false
			tiles = append(tiles, tile)
			continue
		}
		tiles = append(tiles, Tile(symbol, q.Price(), q.PercentChange))
	}
	return tiles
}

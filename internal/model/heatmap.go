package model

import "github.com/shopspring/decimal"

// Channel selects the color family of a heatmap tile.
type Channel string

const (
	ChannelGain Channel = "gain"
	ChannelLoss Channel = "loss"
)

// HeatmapTile is one colored tile of a movers or watchlist heatmap.
type HeatmapTile struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	PercentChange decimal.Decimal `json:"percentChange"`
	Intensity     float64         `json:"intensity"`
	Channel       Channel         `json:"channel"`
	Color         string          `json:"color"`
	HasQuote      bool            `json:"hasQuote"`
}

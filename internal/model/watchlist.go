package model

// Watchlist is a named, ordered set of symbols owned by a user.
type Watchlist struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Symbols []string `json:"stockSymbols"`
}

// WatchlistBoard is the live view of a watchlist: its heatmap tiles and the quotes behind them.
type WatchlistBoard struct {
	Watchlist Watchlist        `json:"watchlist"`
	Tiles     []HeatmapTile    `json:"tiles"`
	Quotes    map[string]Quote `json:"quotes"`
	Status    SyncStatus       `json:"status"`
}

// Ticker is the live view of the market ticker subscription.
type Ticker struct {
	Tiles  []HeatmapTile `json:"tiles"`
	Status SyncStatus    `json:"status"`
}

// Movers holds the heatmap tiles of the day's top gainers and losers.
type Movers struct {
	Gainers []HeatmapTile `json:"gainers"`
	Losers  []HeatmapTile `json:"losers"`
}

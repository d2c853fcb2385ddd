package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is a position owned by a user as reported by the backend.
// The engine treats holdings as read-only input.
type Holding struct {
	Symbol       string          `json:"stockSymbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
}

// PortfolioSummary is the reduction of all holdings against the currently known quotes.
// It is recomputed from scratch whenever holdings or quotes change.
type PortfolioSummary struct {
	TotalInvestment        decimal.Decimal `json:"totalInvestment"`
	CurrentValue           decimal.Decimal `json:"currentValue"`
	TotalProfitLoss        decimal.Decimal `json:"totalProfitLoss"`
	TotalProfitLossPercent decimal.Decimal `json:"totalProfitLossPercent"`
	TodayProfitLoss        decimal.Decimal `json:"todayProfitLoss"`
}

// Position is the derived view of a single holding.
type Position struct {
	Symbol            string          `json:"symbol"`
	Quantity          decimal.Decimal `json:"quantity"`
	AveragePrice      decimal.Decimal `json:"averagePrice"`
	CurrentPrice      decimal.Decimal `json:"currentPrice"`
	Investment        decimal.Decimal `json:"investment"`
	CurrentValue      decimal.Decimal `json:"currentValue"`
	ProfitLoss        decimal.Decimal `json:"profitLoss"`
	ProfitLossPercent decimal.Decimal `json:"profitLossPercent"`
	PercentChange     decimal.Decimal `json:"percentChange"`
	TodayChange       decimal.Decimal `json:"todayChange"`
	Trend             Trend           `json:"trend"`
	HasQuote          bool            `json:"hasQuote"`
}

// Trend labels the direction of today's move.
type Trend string

const (
	TrendBull Trend = "bull"
	TrendBear Trend = "bear"
)

// AllocationEntry is one slice of the allocation chart.
type AllocationEntry struct {
	Symbol      string          `json:"symbol"`
	MarketValue decimal.Decimal `json:"marketValue"`
}

// PortfolioOverview bundles everything derived from one holdings snapshot.
type PortfolioOverview struct {
	Summary    PortfolioSummary  `json:"summary"`
	Positions  []Position        `json:"positions"`
	Allocation []AllocationEntry `json:"allocation"`
	Status     SyncStatus        `json:"status"`
}

// SyncStatus describes the freshness of the snapshot an overview was derived from.
type SyncStatus struct {
	Generation uint64    `json:"generation"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Error      string    `json:"error,omitempty"`
}

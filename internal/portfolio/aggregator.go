// Package portfolio derives valuation, profit/loss and allocation from holdings and
// the currently known quotes. Every function is pure: the same inputs always give the
// same result and nothing is cached between calls.
package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Positions computes the per-holding rows, in holding order.
//
// For each holding:
//
//	investment   = quantity × averagePrice
//	currentPrice = quote close, or 0 when there is no usable quote
//	currentValue = quantity × currentPrice
//	profitLoss   = currentValue − investment
//	todayChange  = percentChange × currentValue / 100
func Positions(holdings []model.Holding, quotes map[string]model.Quote) []model.Position {
	positions := make([]model.Position, 0, len(holdings))
	for _, h := range holdings {
		q, ok := quotes[h.Symbol]

		price := decimal.Zero
		pct := decimal.Zero
		if ok {
			price = q.Price()
			pct = q.PercentChange
		}

		investment := h.Quantity.Mul(h.AveragePrice)
		currentValue := h.Quantity.Mul(price)
		profitLoss := currentValue.Sub(investment)

		trend := model.TrendBull
		if pct.IsNegative() {
			trend = model.TrendBear
		}

		positions = append(positions, model.Position{
			Symbol:            h.Symbol,
			Quantity:          h.Quantity,
			AveragePrice:      h.AveragePrice,
			CurrentPrice:      price,
			Investment:        investment,
			CurrentValue:      currentValue,
			ProfitLoss:        profitLoss,
			ProfitLossPercent: ProfitLossPercent(profitLoss, investment),
			PercentChange:     pct,
			TodayChange:       pct.Mul(currentValue).Div(hundred),
			Trend:             trend,
			HasQuote:          ok && q.Close.Valid,
		})
	}
	return positions
}

// Summarize reduces holdings against quotes into the portfolio totals.
// A holding without a quote still counts toward investment and adds nothing to value.
func Summarize(holdings []model.Holding, quotes map[string]model.Quote) model.PortfolioSummary {
	return summarize(Positions(holdings, quotes))
}

func summarize(positions []model.Position) model.PortfolioSummary {
	var s model.PortfolioSummary
	for _, p := range positions {
		s.TotalInvestment = s.TotalInvestment.Add(p.Investment)
		s.CurrentValue = s.CurrentValue.Add(p.CurrentValue)
		s.TotalProfitLoss = s.TotalProfitLoss.Add(p.ProfitLoss)
		s.TodayProfitLoss = s.TodayProfitLoss.Add(p.TodayChange)
	}
	s.TotalProfitLossPercent = ProfitLossPercent(s.TotalProfitLoss, s.TotalInvestment)
	return s
}

// Allocation returns one entry per holding with a positive market value, in holding order.
// The entries sum to the portfolio's current value.
func Allocation(holdings []model.Holding, quotes map[string]model.Quote) []model.AllocationEntry {
	return allocation(Positions(holdings, quotes))
}

func allocation(positions []model.Position) []model.AllocationEntry {
	entries := make([]model.AllocationEntry, 0, len(positions))
	for _, p := range positions {
		if !p.CurrentValue.IsPositive() {
			continue
		}
		entries = append(entries, model.AllocationEntry{Symbol: p.Symbol, MarketValue: p.CurrentValue})
	}
	return entries
}

// ProfitLossPercent returns profitLoss / investment × 100, or 0 when nothing was invested.
func ProfitLossPercent(profitLoss, investment decimal.Decimal) decimal.Decimal {
	if investment.IsZero() {
		return decimal.Zero
	}
	return profitLoss.Div(investment).Mul(hundred)
}

// Overview computes positions, summary and allocation in one pass over the holdings.
func Overview(holdings []model.Holding, quotes map[string]model.Quote) model.PortfolioOverview {
	positions := Positions(holdings, quotes)
	return model.PortfolioOverview{
		Summary:    summarize(positions),
		Positions:  positions,
		Allocation: allocation(positions),
	}
}

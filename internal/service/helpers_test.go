package service_test

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/logging"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quote"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quotesync"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/testutil"
)

func newOrchestrator(fb *testutil.FakeBackend) *quotesync.Orchestrator {
	return quotesync.NewOrchestrator(quote.NewGateway(fb.Client()), 0, logging.Discard())
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func holding(symbol, qty, avg string) model.Holding {
	return model.Holding{Symbol: symbol, Quantity: d(qty), AveragePrice: d(avg)}
}

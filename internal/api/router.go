package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/middleware"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/localstore"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
)

// Dependencies groups everything the router wires into handlers.
type Dependencies struct {
	System    *service.SystemService
	Portfolio *service.PortfolioService
	Watchlist *service.WatchlistService
	Market    *service.MarketService
	Alerts    *localstore.AlertStore
	Notes     *localstore.NoteStore
	Log       *slog.Logger
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps Dependencies, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(deps.Log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	requireKey := custommiddleware.APIKey(cfg.Server.APIKey)

	systemHandler := handlers.NewSystemHandler(deps.System)
	portfolioHandler := handlers.NewPortfolioHandler(deps.Portfolio)
	watchlistHandler := handlers.NewWatchlistHandler(deps.Watchlist)
	marketHandler := handlers.NewMarketHandler(deps.Market)
	stockStateHandler := handlers.NewStockStateHandler(deps.Alerts, deps.Notes)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", portfolioHandler.Overview)
			r.With(requireKey).Post("/refresh", portfolioHandler.Refresh)
			r.Get("/shared/{userId}", portfolioHandler.Shared)
		})

		r.With(custommiddleware.ValidateSymbolMiddleware).Get("/holdings/{symbol}", portfolioHandler.Holding)
		r.With(requireKey).Post("/transactions/{side}", portfolioHandler.Trade)
		r.With(requireKey).Post("/users/topup", portfolioHandler.TopUp)

		r.Route("/watchlists", func(r chi.Router) {
			r.Get("/", watchlistHandler.Watchlists)
			r.With(requireKey).Post("/", watchlistHandler.CreateWatchlist)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateWatchlistIDMiddleware)
				r.With(requireKey).Delete("/", watchlistHandler.DeleteWatchlist)
				// Reading a board subscribes to it so the dashboard can poll without a key.
				r.Get("/board", watchlistHandler.Board)
				r.With(requireKey).Delete("/board", watchlistHandler.Unwatch)

				r.Route("/stocks/{symbol}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateSymbolMiddleware, requireKey)
					r.Post("/", watchlistHandler.AddSymbol)
					r.Delete("/", watchlistHandler.RemoveSymbol)
				})
			})
		})

		r.Route("/market", func(r chi.Router) {
			r.Get("/ticker", marketHandler.Ticker)
			r.Get("/movers", marketHandler.Movers)
			r.Get("/compare", marketHandler.Compare)
			r.Get("/sparklines", marketHandler.Sparklines)
		})

		r.Route("/stocks", func(r chi.Router) {
			r.Get("/search", marketHandler.Search)
			r.Get("/news", marketHandler.News)

			r.Route("/{symbol}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateSymbolMiddleware)
				r.Get("/sparkline", marketHandler.Sparkline)
				r.Get("/alerts", stockStateHandler.Alerts)
				r.With(requireKey).Post("/alerts", stockStateHandler.CreateAlert)
				r.Get("/note", stockStateHandler.Note)
				r.With(requireKey).Put("/note", stockStateHandler.PutNote)
				r.Get("/{kind}", marketHandler.Detail)
			})
		})

		r.With(custommiddleware.ValidateUUIDMiddleware, requireKey).Delete("/alerts/{uuid}", stockStateHandler.DeleteAlert)
	})

	return r
}

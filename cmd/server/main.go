package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/backend"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/database"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/localstore"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/logging"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quote"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quotesync"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logging.NewLogger(cfg.Logging.Level)
	slog.SetDefault(log)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to database", "path", cfg.Database.Path)

	// Local state
	state := repository.NewStateRepository(db, cfg.Store.Namespace)
	if cfg.Store.EncryptionKey != "" {
		if state, err = repository.NewEncryptedStateRepository(db, cfg.Store.Namespace, cfg.Store.EncryptionKey); err != nil {
			log.Error("invalid store encryption key", "error", err)
			os.Exit(1)
		}
	}
	alerts := localstore.NewAlertStore(state)
	notes := localstore.NewNoteStore(state)

	// Backend and quote pipeline
	client := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithHTTPClient(backend.NewHTTPClient(cfg.Backend.Timeout)),
		backend.WithToken(cfg.Backend.Token),
	)
	var fetcher quote.Fetcher = quote.NewGateway(client)
	if cfg.Quotes.RateLimitPerMinute > 0 {
		fetcher = &quote.Limited{
			Next:    fetcher,
			Limiter: quote.NewLimiter(cfg.Quotes.RateLimitPerMinute, cfg.Quotes.RateBurst),
		}
	}
	quotes := quotesync.NewOrchestrator(fetcher, cfg.Quotes.MaxConcurrency, log)

	// Services and subscriptions
	scheduler := quotesync.NewScheduler(log)
	systemService := service.NewSystemService(db)
	portfolioService := service.NewPortfolioService(client, quotes, log)
	watchlistService := service.NewWatchlistService(client, quotes, scheduler, cfg.Polling.WatchlistInterval, log)
	marketService := service.NewMarketService(client, quotes, cfg.Polling.TickerSymbols, log)

	if err := portfolioService.Start(scheduler, cfg.Polling.HoldingsInterval); err != nil {
		log.Error("failed to start holdings polling", "error", err)
		os.Exit(1)
	}
	if err := marketService.Start(scheduler, cfg.Polling.TickerInterval); err != nil {
		log.Error("failed to start ticker polling", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	// Create router
	router := api.NewRouter(api.Dependencies{
		System:    systemService,
		Portfolio: portfolioService,
		Watchlist: watchlistService,
		Market:    marketService,
		Alerts:    alerts,
		Notes:     notes,
		Log:       log,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("starting server", "addr", cfg.Server.Addr, "version", version.Version, "backend", cfg.Backend.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	watchlistService.Close()
	marketService.Close()
	portfolioService.Close()
	if err := scheduler.Shutdown(ctx); err != nil {
		log.Error("polling jobs did not finish", "error", err)
	}

	log.Info("server exited")
}

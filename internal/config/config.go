package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultTickerSymbols is the symbol list shown by the market ticker when none is configured.
var DefaultTickerSymbols = []string{
	"AAPL", "MSFT", "NVDA", "AMZN", "META", "TSLA", "GOOGL", "NFLX", "AMD", "INTC",
	"JPM", "V", "MA", "XOM", "UNH", "PG", "COST", "WMT", "BA", "DIS",
}

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Backend  BackendConfig
	Polling  PollingConfig
	Quotes   QuoteConfig
	Store    StoreConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
	// APIKey guards mutating routes when set.
	APIKey string
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// BackendConfig describes the REST backend that owns holdings, watchlists and transactions.
type BackendConfig struct {
	BaseURL string // always ends in /api
	Token   string // bearer token attached to every request, may be empty
	Timeout time.Duration
}

// PollingConfig holds the fixed refresh interval of each subscription.
type PollingConfig struct {
	HoldingsInterval  time.Duration
	WatchlistInterval time.Duration
	TickerInterval    time.Duration
	TickerSymbols     []string
}

// QuoteConfig bounds the per-symbol quote fan-out.
type QuoteConfig struct {
	MaxConcurrency     int // 0 means unbounded
	RateLimitPerMinute int // 0 disables rate limiting
	RateBurst          int
}

// StoreConfig configures the local note/alert store.
type StoreConfig struct {
	Namespace     string
	EncryptionKey string // fernet key; empty stores values in plain text
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:   getEnv("SERVER_PORT", "5001"),
			Host:   getEnv("SERVER_HOST", "localhost"),
			APIKey: os.Getenv("INTERNAL_API_KEY"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Backend: BackendConfig{
			BaseURL: NormalizeBaseURL(getEnv("BACKEND_URL", "http://localhost:8080/api")),
			Token:   os.Getenv("BACKEND_TOKEN"),
		},
		Polling: PollingConfig{
			TickerSymbols: getEnvList("TICKER_SYMBOLS", DefaultTickerSymbols),
		},
		Store: StoreConfig{
			Namespace:     getEnv("STORE_NAMESPACE", "default"),
			EncryptionKey: os.Getenv("STORE_ENCRYPTION_KEY"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	var err error
	if config.Backend.Timeout, err = getEnvDuration("BACKEND_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if config.Polling.HoldingsInterval, err = getEnvDuration("HOLDINGS_POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if config.Polling.WatchlistInterval, err = getEnvDuration("WATCHLIST_POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if config.Polling.TickerInterval, err = getEnvDuration("TICKER_POLL_INTERVAL", 60*time.Second); err != nil {
		return nil, err
	}
	if config.Quotes.MaxConcurrency, err = getEnvInt("QUOTE_MAX_CONCURRENCY", 0); err != nil {
		return nil, err
	}
	if config.Quotes.RateLimitPerMinute, err = getEnvInt("QUOTE_RATE_LIMIT_PER_MINUTE", 0); err != nil {
		return nil, err
	}
	if config.Quotes.RateBurst, err = getEnvInt("QUOTE_RATE_BURST", 1); err != nil {
		return nil, err
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// NormalizeBaseURL trims trailing slashes and makes sure the URL ends in /api.
func NormalizeBaseURL(raw string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if strings.HasSuffix(trimmed, "/api") {
		return trimmed
	}
	return trimmed + "/api"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", key, value)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, value)
	}
	return d, nil
}

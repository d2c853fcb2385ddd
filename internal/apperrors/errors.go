package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrHoldingNotFound indicates that the backend has no holding for the requested symbol.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrWatchlistNotFound indicates that a watchlist with the given ID does not exist.
	ErrWatchlistNotFound = errors.New("watchlist not found")

	// ErrAlertNotFound indicates that no price alert with the given ID is stored.
	ErrAlertNotFound = errors.New("price alert not found")

	// ErrSubscriptionNotFound indicates that no live subscription exists for the given key.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// Quote errors are produced at the quote gateway boundary and never cross it as panics.
var (
	// ErrMalformedQuote indicates a provider payload with neither a price nor an error indicator.
	ErrMalformedQuote = errors.New("malformed quote payload")

	// ErrQuoteProvider indicates that the provider answered with an explicit error (rate limit, bad key).
	ErrQuoteProvider = errors.New("quote provider error")

	// ErrQuotesUnavailable indicates that every symbol of a batch failed to fetch.
	ErrQuotesUnavailable = errors.New("no quotes available")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	ErrInvalidSymbol      = errors.New("symbol is required")
	ErrInvalidTarget      = errors.New("alert target must be a positive number")
	ErrInvalidWatchlistID = errors.New("watchlist ID must be a positive integer")
	ErrInvalidUserID      = errors.New("user ID is required")
	ErrInvalidUUID        = errors.New("invalid UUID format")
	ErrInvalidInterval    = errors.New("polling interval must be positive")
	ErrInvalidSide        = errors.New("transaction side must be buy or sell")
	ErrTooManySymbols     = errors.New("too many symbols")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Backend errors
	ErrBackendUnavailable = errors.New("backend request failed")
	ErrBackendRejected    = errors.New("backend rejected request")

	// Portfolio operation errors
	ErrFailedToGetPortfolio       = errors.New("failed to get portfolio overview")
	ErrFailedToGetSharedPortfolio = errors.New("failed to get shared portfolio")
	ErrFailedToGetHolding         = errors.New("failed to get holding")
	ErrFailedToSubmitTransaction  = errors.New("failed to submit transaction")
	ErrFailedToTopUp              = errors.New("failed to top up balance")

	// Watchlist operation errors
	ErrFailedToRetrieveWatchlists = errors.New("failed to retrieve watchlists")
	ErrFailedToUpdateWatchlist    = errors.New("failed to update watchlist")
	ErrFailedToGetWatchlistBoard  = errors.New("failed to get watchlist board")

	// Market operation errors
	ErrFailedToGetMovers    = errors.New("failed to get top movers")
	ErrFailedToGetSparkline = errors.New("failed to get sparkline")
	ErrFailedToRetrieveData = errors.New("failed to retrieve data")

	// Local store errors
	ErrFailedToReadStore  = errors.New("failed to read local store")
	ErrFailedToWriteStore = errors.New("failed to write local store")
	ErrCorruptStoreValue  = errors.New("stored value could not be decoded")
)

package validation

import (
	"strings"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/request"
)

// ValidTradeSide contains the allowed transaction sides.
var ValidTradeSide = map[string]bool{
	"buy": true, "sell": true,
}

// ValidateTrade validates a buy or sell request.
//
// Required fields:
//   - symbol: Must be a valid ticker
//   - quantity: Must be positive
//   - price: Must be positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateTrade(side string, req request.TradeRequest) error {
	errors := make(map[string]string)

	if !ValidTradeSide[strings.ToLower(side)] {
		errors["side"] = "side must be buy or sell"
	}
	if err := ValidateSymbol(req.Symbol); err != nil {
		errors["symbol"] = err.Error()
	}
	if !req.Quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}
	if !req.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateTopUp validates a balance top-up request.
func ValidateTopUp(req request.TopUpRequest) error {
	if !req.Amount.IsPositive() {
		return &Error{Fields: map[string]string{"amount": "amount must be positive"}}
	}
	return nil
}

package request

import "github.com/shopspring/decimal"

// CreateAlertRequest is the body of POST /api/stocks/{symbol}/alerts.
type CreateAlertRequest struct {
	Target decimal.Decimal `json:"target"`
}

// NoteRequest is the body of PUT /api/stocks/{symbol}/note. An empty text clears the note.
type NoteRequest struct {
	Text string `json:"text"`
}

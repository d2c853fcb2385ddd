package validation

import (
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/request"
)

const maxNoteLength = 10000

// ValidateCreateAlert validates a price alert request.
func ValidateCreateAlert(req request.CreateAlertRequest) error {
	if !req.Target.IsPositive() {
		return &Error{Fields: map[string]string{"target": "target must be a positive number"}}
	}
	return nil
}

// ValidateNote validates a note update.
func ValidateNote(req request.NoteRequest) error {
	if len(req.Text) > maxNoteLength {
		return &Error{Fields: map[string]string{"text": "note must be at most 10000 characters"}}
	}
	return nil
}

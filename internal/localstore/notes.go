package localstore

import (
	"fmt"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
)

// NoteStore keeps one free-text note per symbol. Last write wins; no history is kept.
type NoteStore struct {
	kv KV
}

// NewNoteStore creates a NoteStore on top of kv.
func NewNoteStore(kv KV) *NoteStore {
	return &NoteStore{kv: kv}
}

// GetNote returns the note for symbol, or "" when none was saved.
func (s *NoteStore) GetNote(symbol string) (string, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return "", apperrors.ErrInvalidSymbol
	}
	note, _, err := s.kv.Get(notePrefix + symbol)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrFailedToReadStore, err)
	}
	return note, nil
}

// SetNote replaces the note for symbol. An empty text removes the note.
func (s *NoteStore) SetNote(symbol, text string) error {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return apperrors.ErrInvalidSymbol
	}
	var err error
	if text == "" {
		err = s.kv.Delete(notePrefix + symbol)
	} else {
		err = s.kv.Put(notePrefix+symbol, text)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToWriteStore, err)
	}
	return nil
}

package testutil

import (
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/localstore"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/repository"
)

// NewTestStores returns alert and note stores backed by a fresh migrated database.
func NewTestStores(t *testing.T) (*localstore.AlertStore, *localstore.NoteStore) {
	t.Helper()
	repo := repository.NewStateRepository(SetupTestDB(t), "test")
	return localstore.NewAlertStore(repo), localstore.NewNoteStore(repo)
}

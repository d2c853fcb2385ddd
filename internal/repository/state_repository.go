package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
)

// storedValueTTL is the fernet token age limit; persisted state never expires.
const storedValueTTL = 100 * 365 * 24 * time.Hour

// StateRepository provides key-value access to the local_state table.
// Every key lives under the repository's namespace so several profiles can share one database.
// When an encryption key is configured, values are stored as fernet tokens.
type StateRepository struct {
	db        *sql.DB
	namespace string
	key       *fernet.Key
}

// NewStateRepository creates a new StateRepository with the provided database connection.
func NewStateRepository(db *sql.DB, namespace string) *StateRepository {
	return &StateRepository{db: db, namespace: namespace}
}

// NewEncryptedStateRepository creates a StateRepository that encrypts values at rest.
//
// Parameters:
//   - db: Open database connection with the local_state table migrated
//   - namespace: Key prefix isolating this profile's state
//   - encodedKey: Base64 encoded 32 byte fernet key
//
// Returns an error if the key cannot be decoded.
func NewEncryptedStateRepository(db *sql.DB, namespace, encodedKey string) (*StateRepository, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode store encryption key: %w", err)
	}
	return &StateRepository{db: db, namespace: namespace, key: key}, nil
}

// Get returns the value stored under key.
// The boolean is false when the key has never been written (not an error).
func (s *StateRepository) Get(key string) (string, bool, error) {
	query := `
		SELECT value
		FROM local_state
		WHERE namespace = ? AND key = ?
	`
	var value string
	err := s.db.QueryRow(query, s.namespace, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query local_state: %w", err)
	}

	if s.key == nil {
		return value, true, nil
	}
	plain := fernet.VerifyAndDecrypt([]byte(value), storedValueTTL, []*fernet.Key{s.key})
	if plain == nil {
		return "", false, fmt.Errorf("failed to decrypt local_state value for %s", key)
	}
	return string(plain), true, nil
}

// Put stores value under key, replacing any previous value.
func (s *StateRepository) Put(key, value string) error {
	if s.key != nil {
		token, err := fernet.EncryptAndSign([]byte(value), s.key)
		if err != nil {
			return fmt.Errorf("failed to encrypt local_state value: %w", err)
		}
		value = string(token)
	}

	query := `
		INSERT INTO local_state (namespace, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, s.namespace, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write local_state: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *StateRepository) Delete(key string) error {
	query := `
		DELETE FROM local_state
		WHERE namespace = ? AND key = ?
	`
	if _, err := s.db.Exec(query, s.namespace, key); err != nil {
		return fmt.Errorf("failed to delete from local_state: %w", err)
	}
	return nil
}

package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// StateNamespace prefixes every key in the app_state table. The prefix is
// kept identical to the original browser build's storage namespace so export
// files remain interchangeable between the two.
const StateNamespace = "fake-portfolio-"

// Well-known state keys.
const (
	BalanceKey  = StateNamespace + "balance"
	SettingsKey = StateNamespace + "settings"
)

// StateRepository provides access to the namespaced key-value state table
// holding balance, settings, and any broker-theme values. Loads report
// "nothing stored" via the ok flag, never as an error.
type StateRepository struct {
	db *sql.DB
}

// NewStateRepository creates a new StateRepository with the provided database connection.
func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Get retrieves the raw value stored under key.
func (r *StateRepository) Get(key string) (value string, ok bool, err error) {
	err = r.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query app_state table: %w", err)
	}
	return value, true, nil
}

// Set stores value under key, overwriting any previous value.
func (r *StateRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO app_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write app_state table: %w", err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (r *StateRepository) Delete(key string) error {
	if _, err := r.db.Exec(`DELETE FROM app_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete app_state key: %w", err)
	}
	return nil
}

// All returns every namespaced key-value pair. Keys outside the namespace are
// ignored; nothing else should be writing to this table.
func (r *StateRepository) All() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM app_state ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query app_state table: %w", err)
	}
	defer rows.Close()

	state := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan app_state table results: %w", err)
		}
		if strings.HasPrefix(key, StateNamespace) {
			state[key] = value
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating app_state table: %w", err)
	}

	return state, nil
}

// DeleteNamespace removes every key in the namespace (import's
// delete-then-write replacement and portfolio reset).
func (r *StateRepository) DeleteNamespace() error {
	if _, err := r.db.Exec(`DELETE FROM app_state WHERE key LIKE ?`, StateNamespace+"%"); err != nil {
		return fmt.Errorf("failed to clear app_state namespace: %w", err)
	}
	return nil
}

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetItem returns the value stored under key. ok is false when the key is absent.
func (db *DB) GetItem(key string) (value string, ok bool, err error) {
	err = db.QueryRow(`SELECT value FROM local_items WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get item %q: %w", key, err)
	}
	return value, true, nil
}

// SetItem stores value under key, replacing any previous value.
func (db *DB) SetItem(key, value string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO local_items (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, now)
	if err != nil {
		return fmt.Errorf("set item %q: %w", key, err)
	}
	return nil
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (db *DB) RemoveItem(key string) error {
	if _, err := db.Exec(`DELETE FROM local_items WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove item %q: %w", key, err)
	}
	return nil
}

// Keys returns all stored keys in lexical order.
func (db *DB) Keys() ([]string, error) {
	rows, err := db.Query(`SELECT key FROM local_items ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

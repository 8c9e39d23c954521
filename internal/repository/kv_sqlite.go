package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type KVSQLite struct {
	db *sql.DB
}

func NewKVSQLite(db *sql.DB) *KVSQLite {
	return &KVSQLite{db: db}
}

var _ KVStore = (*KVSQLite)(nil)

const (
	upsertKVSQL = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`
	selectKVSQL = `SELECT value FROM kv_store WHERE key = ?`
	deleteKVSQL = `DELETE FROM kv_store WHERE key = ?`
)

// Get fetches a value. Returns ("", false, nil) if the key is not stored.
func (r *KVSQLite) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	var value string
	err := r.db.QueryRow(selectKVSQL, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select key %q: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or replaces the value stored under key.
func (r *KVSQLite) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := r.db.Exec(upsertKVSQL, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert key %q: %w", key, err)
	}
	return nil
}

func (r *KVSQLite) Remove(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := r.db.Exec(deleteKVSQL, key); err != nil {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	return nil
}

func (r *KVSQLite) Close() error {
	return r.db.Close()
}

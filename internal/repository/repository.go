package repository

import "errors"

// KVStore is the durable, synchronous, string-valued key/value capability the
// session and location stores persist through.
type KVStore interface {
	// Get returns the value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Remove deletes the key; removing a missing key is not an error.
	Remove(key string) error
	Close() error
}

// ErrEmptyKey is returned for operations on "".
var ErrEmptyKey = errors.New("empty key")

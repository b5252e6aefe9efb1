// Package memory implements an in-memory key-value store for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"mealtrack/internal/domain"
)

// DB implements an in-memory key-value store.
type DB struct {
	mu   sync.Mutex
	data map[string]string

	// failWith, when set, is returned by every operation.
	failWith error
}

// New creates a new in-memory store.
func New() *DB {
	return &DB{data: make(map[string]string)}
}

// Ensure interfaces are met.
var _ domain.KVStore = (*DB)(nil)

// FailWith makes every subsequent call fail with a storage error wrapping err.
// Pass nil to restore normal behaviour.
func (db *DB) FailWith(err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.failWith = err
}

func (db *DB) failure() error {
	if db.failWith == nil {
		return nil
	}
	return errors.Join(domain.ErrStorage, db.failWith)
}

// Get returns the value stored under key.
func (db *DB) Get(ctx context.Context, key string) (string, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.failure(); err != nil {
		return "", false, err
	}
	v, ok := db.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (db *DB) Set(ctx context.Context, key, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.failure(); err != nil {
		return err
	}
	db.data[key] = value
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (db *DB) Remove(ctx context.Context, key string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.failure(); err != nil {
		return err
	}
	delete(db.data, key)
	return nil
}

// MultiGet returns the values of the keys that exist.
func (db *DB) MultiGet(ctx context.Context, keys []string) (map[string]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.failure(); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := db.data[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// MultiRemove deletes all given keys.
func (db *DB) MultiRemove(ctx context.Context, keys []string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.failure(); err != nil {
		return err
	}
	for _, k := range keys {
		delete(db.data, k)
	}
	return nil
}

// Clear removes every key.
func (db *DB) Clear(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.failure(); err != nil {
		return err
	}
	db.data = make(map[string]string)
	return nil
}

// Keys lists all keys in sorted order.
func (db *DB) Keys(ctx context.Context) ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.failure(); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(db.data))
	for k := range db.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

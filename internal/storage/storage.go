// Package storage defines the key-value persistence used for settings, bookmarks and
// reading progress.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// KeyValueStore persists opaque values by string key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes every entry atomically.
	SetMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
	// Keys returns the keys starting with prefix in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

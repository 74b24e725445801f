package port

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a KeyValueStore when nothing is stored under a key
var ErrKeyNotFound = errors.New("key not found")

// Persisted blob keys
const (
	KeyQuotes   = "quotes"
	KeySettings = "settings"
)

// KeyValueStore persists opaque JSON blobs by key. Writes replace the whole
// value; there is no partial update.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

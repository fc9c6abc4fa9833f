package i

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KVStore.Get for a missing key.
var ErrNotFound = errors.New("key not found")

// KVStore is durable key/value storage for JSON documents.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error

	// Update runs a read-modify-write on key atomically with respect to other
	// Update calls. fn receives nil when the key is missing; returning a nil
	// value leaves the stored value untouched.
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error

	Close() error
}

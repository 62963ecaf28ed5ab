package core

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// ErrStoreClosed is returned by a Store used after Close. It is a shutdown error.
var ErrStoreClosed = NewShutdownError("store is closed")

// Store is a small key/value store holding persisted client state (eg. the session blob).
type Store interface {
	// Get returns ErrKeyNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is a no-op when key is absent.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Package cache provides the key/value caches that hold converted Markdown and
// chunk lists between requests.
//
// Values are opaque byte slices written atomically as a whole, so concurrent
// writers for the same key resolve as last-write-wins.
package cache

import (
	"context"
	"time"
)

// Cache is the minimal store the pipeline needs.
type Cache interface {
	// Get returns the value and true on a hit. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value for ttl. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// PrefixDeleter is implemented by caches that can drop every key sharing a
// prefix. An empty prefix clears the cache.
type PrefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// Inspector is implemented by caches that can enumerate live keys.
type Inspector interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Pinger is implemented by caches backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Noop is a cache that never stores anything.
type Noop struct{}

// NewNoop creates a no-op cache.
func NewNoop() *Noop {
	return &Noop{}
}

// Get always misses.
func (Noop) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (Noop) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// Delete does nothing.
func (Noop) Delete(context.Context, string) error {
	return nil
}

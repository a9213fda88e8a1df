// Package gorevalidate generates HTTP caching metadata (Cache-Control,
// Expires, ETag, Last-Modified) and evaluates conditional requests against
// small stored validator records, deciding per request between 304 Not
// Modified, 412 Precondition Failed, and full processing. It never stores
// response bodies.
package gorevalidate

import (
	"context"
	"errors"
	"iter"
	"time"
)

var (
	ErrNotFound = errors.New("validator not found")
)

// ValidatorValue is the stored validation state for one resource variant.
// It is replaced as a unit whenever the resource changes and is never
// partially mutated.
type ValidatorValue struct {
	ETag         ETag
	LastModified time.Time // UTC, second granularity
}

// Store persists ValidatorValues by StoreKey. Implementations must be safe
// for concurrent readers and writers; a Get racing a Set may observe either
// value but never a partial one. A Store may be backed by a remote service,
// so every operation takes a context and may block on I/O.
type Store interface {
	// Get returns the value stored under k, or ErrNotFound.
	Get(ctx context.Context, k StoreKey) (*ValidatorValue, error)

	// Set atomically replaces the value stored under k.
	Set(ctx context.Context, k StoreKey, v *ValidatorValue) error

	// Delete removes the value stored under k. Deleting an absent key is
	// not an error.
	Delete(ctx context.Context, k StoreKey) error

	// KeysByPart returns the stored keys containing part as a substring.
	// The sequence is lazy and restartable: ranging over it again re-runs
	// the scan, and implementations must not materialize the full key
	// space up front.
	KeysByPart(ctx context.Context, part string, ignoreCase bool) iter.Seq2[StoreKey, error]
}

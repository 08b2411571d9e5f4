// Package store defines the durable entry storage abstraction used by anycache.
//
// Implementations MUST be byte-for-byte transparent: Read must return exactly
// the same []byte that was previously passed to Write for a key (no
// prepended/appended metadata, no re-encoding, no mutation). If a store
// performs internal transforms (e.g., compression), they MUST be fully
// reversed so that the bytes returned by Read are identical to the bytes
// provided to Write.
//
// Entries must survive process restarts. Write must be atomic with respect
// to concurrent readers, including readers in other processes: a concurrent
// Read or Exists must observe either the complete previous state or the
// complete new payload, never a partial write.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read for a key that has no entry. The engine
// treats it as a cache miss; it is never surfaced to external callers.
var ErrNotFound = errors.New("store: entry not found")

// Store maps (namespace, key) to a byte payload on durable storage.
// Must be safe for concurrent use.
type Store interface {
	// Exists reports whether an entry is present.
	Exists(ctx context.Context, namespace, key string) (bool, error)

	// Read returns the stored payload, or ErrNotFound when absent.
	Read(ctx context.Context, namespace, key string) ([]byte, error)

	// Write persists payload atomically, overwriting any previous entry
	// wholesale.
	Write(ctx context.Context, namespace, key string, payload []byte) error

	// Delete removes an entry. Deleting an absent key is not an error.
	Delete(ctx context.Context, namespace, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

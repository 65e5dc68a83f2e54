// Package blob defines the optional external payload store.
//
// By default file payloads live inside the entity store itself, next to their
// metadata. A Store moves the bytes elsewhere (local directory, memory,
// S3-compatible object storage) while the entity store keeps only metadata.
// Blob IDs are the owning file's ID and are treated as opaque strings.
//
// Coordination contract: the entity store deletes metadata first, inside its
// own transaction, and then deletes the orphaned payloads best-effort. A crash
// in between leaves orphaned blobs, never dangling metadata; the gc package
// sweeps those up.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the requested blob does not exist.
var ErrNotFound = errors.New("blob not found")

// Store persists file payloads outside the entity store.
//
// Implementations must be safe for concurrent use. Concurrent writes to the
// same ID are last-write-wins.
type Store interface {
	// Put stores data under id, overwriting any previous payload.
	Put(ctx context.Context, id string, data []byte) error

	// Get returns the payload stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, error)

	// Delete removes the payload stored under id. Deleting a missing blob
	// is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored blobs. Used by the garbage
	// collector to find payloads no longer referenced by metadata.
	List(ctx context.Context) ([]string, error)

	// Close releases the store's resources.
	Close() error
}

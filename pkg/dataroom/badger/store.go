// Package badger implements the dataroom entity store on BadgerDB, a fast
// embedded key-value store.
//
// This is the persistent repository used in normal operation. It is suitable
// where dataroom state must survive process restarts: all records live in a
// single local database directory, and every multi-record mutation (dataroom
// creation with its root folder, cascade deletes) runs inside one BadgerDB
// write transaction, so readers never observe partially-applied state.
//
// Storage Model:
// The store uses namespaced key prefixes to organize entity tables and their
// sibling-name indexes (see keys.go for the schema). Point lookups cover id
// and duplicate-name checks; prefix scans cover child listings and
// per-dataroom cascades.
//
// Blob Placement:
// File payloads are embedded in the database by default, written in the same
// transaction as their metadata. When an external blob.Store is configured,
// payloads go there instead and the store deletes orphaned payloads
// best-effort after the metadata transaction commits (the gc package covers
// the crash window).
//
// Thread Safety:
// BadgerDB transactions provide snapshot isolation; the store is safe for
// concurrent use from multiple goroutines.
package badger

import (
	"context"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"dataroom/internal/logger"
	"dataroom/pkg/blob"
)

// Store implements dataroom.Store backed by BadgerDB.
type Store struct {
	db *badger.DB

	// blobs is the external payload store; nil means payloads are embedded
	// in the database next to their metadata.
	blobs blob.Store
}

// Config contains configuration for creating a BadgerDB entity store.
type Config struct {
	// DBPath is the directory where BadgerDB stores its files. BadgerDB
	// creates multiple files in this directory (value log, LSM tree, etc.)
	DBPath string `mapstructure:"db_path"`

	// Blobs is an optional external payload store. Leave nil to embed
	// payloads in the database.
	Blobs blob.Store

	// BadgerOptions allows customization of BadgerDB behavior.
	// If nil, sensible defaults for a metadata workload are used.
	BadgerOptions *badger.Options
}

// NewStore opens (or creates) a BadgerDB entity store at the configured path.
// The returned store is immediately ready for use.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var opts badger.Options
	if cfg.BadgerOptions != nil {
		opts = *cfg.BadgerOptions
	} else {
		opts = badger.DefaultOptions(cfg.DBPath)
		// Records are small JSON documents; compression overhead is not
		// worth it and badger's own logging is too chatty at INFO.
		opts = opts.WithLoggingLevel(badger.WARNING)
		opts = opts.WithCompression(options.None)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB at %s: %w", cfg.DBPath, err)
	}

	return &Store{db: db, blobs: cfg.Blobs}, nil
}

// Close closes the database and the external blob store, if any. After Close
// the store must not be used.
func (s *Store) Close() error {
	if s.blobs != nil {
		if err := s.blobs.Close(); err != nil {
			logger.Warn("failed to close blob store: %v", err)
		}
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close BadgerDB: %w", err)
	}
	return nil
}

// embedded reports whether payloads live inside the database.
func (s *Store) embedded() bool {
	return s.blobs == nil
}

// deleteBlobs removes external payloads after a metadata transaction has
// committed. Failures are logged, not returned: the metadata is already gone
// and the garbage collector will catch any stragglers.
func (s *Store) deleteBlobs(ctx context.Context, ids []string) {
	for _, id := range ids {
		if err := s.blobs.Delete(ctx, id); err != nil {
			logger.Warn("failed to delete blob %s (will be garbage collected): %v", id, err)
		}
	}
}

// scanValues collects the values of every key with the given prefix.
// Sibling-index values are entity IDs, so this is how child listings and
// cascade scopes are resolved.
func scanValues(txn *badger.Txn, prefix []byte) ([]string, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	var values []string
	for it.Rewind(); it.Valid(); it.Next() {
		err := it.Item().Value(func(val []byte) error {
			values = append(values, string(val))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read index entry: %w", err)
		}
	}
	return values, nil
}

// scanKeys collects a copy of every key with the given prefix. Used when a
// cascade needs to delete whole index ranges.
func scanKeys(txn *badger.Txn, prefix []byte) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false

	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys, nil
}

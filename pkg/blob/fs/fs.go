// Package fs provides a blob store backed by a local directory.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dataroom/pkg/blob"
)

// Store implements blob.Store on the local filesystem. Each payload is one
// file named after its blob ID under the base directory. IDs are UUID strings,
// which are filesystem-safe, so no escaping is needed.
//
// Thread Safety: filesystem operations are safe at the OS level; concurrent
// writes to the same ID are last-write-wins.
type Store struct {
	basePath string
}

// NewStore creates a filesystem blob store rooted at basePath, creating the
// directory if it doesn't exist.
func NewStore(ctx context.Context, basePath string) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}

	return &Store{basePath: basePath}, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.basePath, id)
}

func (s *Store) Put(ctx context.Context, id string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Write to a temp file and rename so readers never observe a partial
	// payload.
	tmp, err := os.CreateTemp(s.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp blob: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close blob: %w", err)
	}

	if err := os.Rename(tmpName, s.path(id)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to store blob: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob %s: %w", id, blob.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		// Skip in-flight temp files from interrupted Puts.
		if len(name) > 0 && name[0] == '.' {
			continue
		}
		ids = append(ids, name)
	}
	return ids, nil
}

func (s *Store) Close() error {
	return nil
}

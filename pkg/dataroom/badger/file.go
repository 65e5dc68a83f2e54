package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"dataroom/pkg/blob"
	"dataroom/pkg/dataroom"
)

// UploadFile stores a new file under a collision-free name. The upload never
// fails because of a name conflict: the stored name is resolved against the
// sibling names inside the same transaction that inserts the record, so a
// concurrent upload of the same name cannot slip past the resolution.
//
// With an external blob store the payload is written before the metadata
// transaction; if the transaction then fails, the payload is removed
// best-effort (the garbage collector covers the crash window).
func (s *Store) UploadFile(ctx context.Context, up dataroom.Upload) (*dataroom.FileMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	meta := &dataroom.FileMetadata{
		ID:         uuid.NewString(),
		DataroomID: up.DataroomID,
		FolderID:   up.FolderID,
		MIME:       up.MIME,
		Size:       int64(len(up.Data)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if !s.embedded() {
		if err := s.blobs.Put(ctx, meta.ID, up.Data); err != nil {
			return nil, fmt.Errorf("failed to store blob: %w", err)
		}
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		names, err := siblingFileNames(txn, up.DataroomID, up.FolderID)
		if err != nil {
			return err
		}

		// UniqueName compares exactly; the sibling index compares
		// case-insensitively. Re-resolve until the index slot is free so a
		// name differing only in case from an existing sibling still gets a
		// suffix instead of colliding with its index entry.
		resolved := dataroom.UniqueName(up.Name, names)
		for {
			_, err := txn.Get(keyFileChild(up.DataroomID, up.FolderID, resolved))
			if err == badger.ErrKeyNotFound {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to check file name: %w", err)
			}
			names = append(names, resolved)
			resolved = dataroom.UniqueName(up.Name, names)
		}
		meta.Name = resolved

		metaBytes, err := encodeFile(meta)
		if err != nil {
			return err
		}
		if err := txn.Set(keyFile(meta.ID), metaBytes); err != nil {
			return fmt.Errorf("failed to store file: %w", err)
		}
		if err := txn.Set(keyFileChild(up.DataroomID, up.FolderID, resolved), []byte(meta.ID)); err != nil {
			return fmt.Errorf("failed to store file index: %w", err)
		}
		if s.embedded() {
			if err := txn.Set(keyBlob(meta.ID), up.Data); err != nil {
				return fmt.Errorf("failed to store blob: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if !s.embedded() {
			s.deleteBlobs(ctx, []string{meta.ID})
		}
		return nil, err
	}

	return meta, nil
}

// GetFile returns file metadata without the payload.
func (s *Store) GetFile(ctx context.Context, fileID string) (*dataroom.FileMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var file *dataroom.FileMetadata

	err := s.db.View(func(txn *badger.Txn) error {
		f, found, err := getFile(txn, fileID)
		if err != nil {
			return err
		}
		if !found {
			return &dataroom.StoreError{
				Code:    dataroom.ErrNotFound,
				Message: dataroom.MsgFileNotFound,
				Path:    fileID,
			}
		}
		file = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// GetFileBlob returns the file's binary payload. The returned slice is a
// fresh copy; callers own it and no reference to store internals escapes.
func (s *Store) GetFileBlob(ctx context.Context, fileID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notFound := &dataroom.StoreError{
		Code:    dataroom.ErrNotFound,
		Message: dataroom.MsgFileNotFound,
		Path:    fileID,
	}

	if !s.embedded() {
		// Confirm the metadata exists so a stray blob can't resurrect a
		// deleted file.
		if _, err := s.GetFile(ctx, fileID); err != nil {
			return nil, err
		}
		data, err := s.blobs.Get(ctx, fileID)
		if errors.Is(err, blob.ErrNotFound) {
			return nil, notFound
		}
		return data, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyBlob(fileID))
		if err == badger.ErrKeyNotFound {
			return notFound
		}
		if err != nil {
			return fmt.Errorf("failed to get blob: %w", err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// RenameFile renames a file with the same duplicate-check discipline as
// RenameFolder, scoped to the file's folder.
func (s *Store) RenameFile(ctx context.Context, fileID, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		file, found, err := getFile(txn, fileID)
		if err != nil {
			return err
		}
		if !found {
			return &dataroom.StoreError{
				Code:    dataroom.ErrNotFound,
				Message: dataroom.MsgFileNotFound,
				Path:    fileID,
			}
		}

		newKey := keyFileChild(file.DataroomID, file.FolderID, name)
		item, err := txn.Get(newKey)
		if err == nil {
			var holder string
			if err := item.Value(func(val []byte) error {
				holder = string(val)
				return nil
			}); err != nil {
				return err
			}
			if holder != fileID {
				return &dataroom.StoreError{
					Code:    dataroom.ErrDuplicateName,
					Message: dataroom.MsgDuplicateItem,
					Path:    name,
				}
			}
		} else if err != badger.ErrKeyNotFound {
			return fmt.Errorf("failed to check file name: %w", err)
		}

		if err := txn.Delete(keyFileChild(file.DataroomID, file.FolderID, file.Name)); err != nil {
			return fmt.Errorf("failed to delete file index: %w", err)
		}
		if err := txn.Set(newKey, []byte(fileID)); err != nil {
			return fmt.Errorf("failed to store file index: %w", err)
		}

		file.Name = name
		file.UpdatedAt = time.Now()
		fileBytes, err := encodeFile(file)
		if err != nil {
			return err
		}
		if err := txn.Set(keyFile(fileID), fileBytes); err != nil {
			return fmt.Errorf("failed to store file: %w", err)
		}
		return nil
	})
}

// DeleteFile removes a single file record and its payload. Deleting a
// missing file is a no-op.
func (s *Store) DeleteFile(ctx context.Context, fileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var orphaned bool

	err := s.db.Update(func(txn *badger.Txn) error {
		file, found, err := getFile(txn, fileID)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}

		if err := txn.Delete(keyFile(fileID)); err != nil {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		if err := txn.Delete(keyFileChild(file.DataroomID, file.FolderID, file.Name)); err != nil {
			return fmt.Errorf("failed to delete file index: %w", err)
		}
		if s.embedded() {
			if err := txn.Delete(keyBlob(fileID)); err != nil {
				return fmt.Errorf("failed to delete blob: %w", err)
			}
		} else {
			orphaned = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	if orphaned {
		s.deleteBlobs(ctx, []string{fileID})
	}
	return nil
}

// siblingFileNames returns the stored names of every file directly inside the
// folder, for collision-free name resolution.
func siblingFileNames(txn *badger.Txn, dataroomID, folderID string) ([]string, error) {
	fileIDs, err := scanValues(txn, keyFileChildPrefix(dataroomID, folderID))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(fileIDs))
	for _, id := range fileIDs {
		file, found, err := getFile(txn, id)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		names = append(names, file.Name)
	}
	return names, nil
}

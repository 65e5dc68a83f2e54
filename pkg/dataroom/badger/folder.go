package badger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"dataroom/pkg/dataroom"
)

// maxPathDepth bounds the upward walk in GetFolderPath so a corrupted parent
// cycle cannot hang the store.
const maxPathDepth = 1024

// GetFolderContents returns the direct children of folderID, folders and
// files each sorted by name (case-insensitive, ascending).
func (s *Store) GetFolderContents(ctx context.Context, dataroomID, folderID string) (*dataroom.FolderContents, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contents := &dataroom.FolderContents{
		Folders: []dataroom.Folder{},
		Files:   []dataroom.FileMetadata{},
	}

	err := s.db.View(func(txn *badger.Txn) error {
		folderIDs, err := scanValues(txn, keyFolderChildPrefix(dataroomID, folderID))
		if err != nil {
			return err
		}
		for _, id := range folderIDs {
			folder, found, err := getFolder(txn, id)
			if err != nil {
				return err
			}
			if !found {
				// Dangling index entry; skip rather than fail a listing.
				continue
			}
			contents.Folders = append(contents.Folders, *folder)
		}

		fileIDs, err := scanValues(txn, keyFileChildPrefix(dataroomID, folderID))
		if err != nil {
			return err
		}
		for _, id := range fileIDs {
			file, found, err := getFile(txn, id)
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			contents.Files = append(contents.Files, *file)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortFolderContents(contents)
	return contents, nil
}

// GetFolder returns a folder by id.
func (s *Store) GetFolder(ctx context.Context, folderID string) (*dataroom.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var folder *dataroom.Folder

	err := s.db.View(func(txn *badger.Txn) error {
		f, found, err := getFolder(txn, folderID)
		if err != nil {
			return err
		}
		if !found {
			return &dataroom.StoreError{
				Code:    dataroom.ErrNotFound,
				Message: dataroom.MsgFolderNotFound,
				Path:    folderID,
			}
		}
		folder = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return folder, nil
}

// GetFolderPath returns the ancestor chain of folderID in root-to-target
// order, by walking parent links upward and reversing. A broken link ends the
// walk silently: navigation must keep working even when an ancestor record is
// gone, so the result is truncated, never an error.
func (s *Store) GetFolderPath(ctx context.Context, folderID string) ([]dataroom.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := []dataroom.Folder{}

	err := s.db.View(func(txn *badger.Txn) error {
		currentID := folderID
		for depth := 0; currentID != "" && depth < maxPathDepth; depth++ {
			folder, found, err := getFolder(txn, currentID)
			if err != nil {
				return err
			}
			if !found {
				break
			}
			path = append(path, *folder)
			currentID = folder.ParentID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Walked leaf-to-root; callers want root-to-leaf.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// CreateFolder creates a folder under parentID. The case-insensitive sibling
// duplicate check is a point lookup on the sibling index inside the same
// transaction as the write.
func (s *Store) CreateFolder(ctx context.Context, dataroomID, parentID, name string) (*dataroom.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	folder := &dataroom.Folder{
		ID:         uuid.NewString(),
		DataroomID: dataroomID,
		ParentID:   parentID,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(keyFolderChild(dataroomID, parentID, name))
		if err == nil {
			return &dataroom.StoreError{
				Code:    dataroom.ErrDuplicateName,
				Message: dataroom.MsgDuplicateItem,
				Path:    name,
			}
		}
		if err != badger.ErrKeyNotFound {
			return fmt.Errorf("failed to check folder name: %w", err)
		}

		folderBytes, err := encodeFolder(folder)
		if err != nil {
			return err
		}
		if err := txn.Set(keyFolder(folder.ID), folderBytes); err != nil {
			return fmt.Errorf("failed to store folder: %w", err)
		}
		if err := txn.Set(keyFolderChild(dataroomID, parentID, name), []byte(folder.ID)); err != nil {
			return fmt.Errorf("failed to store folder index: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return folder, nil
}

// RenameFolder renames a folder in place and bumps UpdatedAt. A different
// sibling already holding the name (case-insensitive) fails the rename;
// renaming a folder to a different casing of its own name succeeds.
func (s *Store) RenameFolder(ctx context.Context, folderID, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		folder, found, err := getFolder(txn, folderID)
		if err != nil {
			return err
		}
		if !found {
			return &dataroom.StoreError{
				Code:    dataroom.ErrNotFound,
				Message: dataroom.MsgFolderNotFound,
				Path:    folderID,
			}
		}

		newKey := keyFolderChild(folder.DataroomID, folder.ParentID, name)
		item, err := txn.Get(newKey)
		if err == nil {
			var holder string
			if err := item.Value(func(val []byte) error {
				holder = string(val)
				return nil
			}); err != nil {
				return err
			}
			if holder != folderID {
				return &dataroom.StoreError{
					Code:    dataroom.ErrDuplicateName,
					Message: dataroom.MsgDuplicateItem,
					Path:    name,
				}
			}
		} else if err != badger.ErrKeyNotFound {
			return fmt.Errorf("failed to check folder name: %w", err)
		}

		if err := txn.Delete(keyFolderChild(folder.DataroomID, folder.ParentID, folder.Name)); err != nil {
			return fmt.Errorf("failed to delete folder index: %w", err)
		}
		if err := txn.Set(newKey, []byte(folderID)); err != nil {
			return fmt.Errorf("failed to store folder index: %w", err)
		}

		folder.Name = name
		folder.UpdatedAt = time.Now()
		folderBytes, err := encodeFolder(folder)
		if err != nil {
			return err
		}
		if err := txn.Set(keyFolder(folderID), folderBytes); err != nil {
			return fmt.Errorf("failed to store folder: %w", err)
		}
		return nil
	})
}

// DeleteFolderCascade deletes the folder, every descendant folder, and every
// file any of them owns, as one transaction. A folder that is already gone is
// tolerated as a no-op.
func (s *Store) DeleteFolderCascade(ctx context.Context, folderID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var orphanedBlobs []string

	err := s.db.Update(func(txn *badger.Txn) error {
		folder, found, err := getFolder(txn, folderID)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}

		descendants, err := collectDescendantFolders(txn, folder.DataroomID, folderID)
		if err != nil {
			return err
		}
		targets := append(descendants, folderID)

		for _, target := range targets {
			// Files owned by this folder.
			fileIDs, err := scanValues(txn, keyFileChildPrefix(folder.DataroomID, target))
			if err != nil {
				return err
			}
			fileKeys, err := scanKeys(txn, keyFileChildPrefix(folder.DataroomID, target))
			if err != nil {
				return err
			}
			for _, fileID := range fileIDs {
				if err := txn.Delete(keyFile(fileID)); err != nil {
					return fmt.Errorf("failed to delete file: %w", err)
				}
				if s.embedded() {
					if err := txn.Delete(keyBlob(fileID)); err != nil {
						return fmt.Errorf("failed to delete blob: %w", err)
					}
				} else {
					orphanedBlobs = append(orphanedBlobs, fileID)
				}
			}
			for _, key := range fileKeys {
				if err := txn.Delete(key); err != nil {
					return fmt.Errorf("failed to delete file index: %w", err)
				}
			}

			// Child folder index entries. The child records themselves are
			// deleted below; every descendant's parent is in targets, so no
			// entry survives.
			childKeys, err := scanKeys(txn, keyFolderChildPrefix(folder.DataroomID, target))
			if err != nil {
				return err
			}
			for _, key := range childKeys {
				if err := txn.Delete(key); err != nil {
					return fmt.Errorf("failed to delete folder index: %w", err)
				}
			}

			if err := txn.Delete(keyFolder(target)); err != nil {
				return fmt.Errorf("failed to delete folder: %w", err)
			}
		}

		// The target's own index entry lives under its parent, which is not
		// part of the cascade.
		if err := txn.Delete(keyFolderChild(folder.DataroomID, folder.ParentID, folder.Name)); err != nil {
			return fmt.Errorf("failed to delete folder index: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(orphanedBlobs) > 0 {
		s.deleteBlobs(ctx, orphanedBlobs)
	}
	return nil
}

// CountFolderContents counts descendant folders and transitively owned files.
// It backs the cascade-delete preview and degrades to zero counts on a
// missing folder instead of failing.
func (s *Store) CountFolderContents(ctx context.Context, folderID string) (dataroom.ContentCounts, error) {
	if err := ctx.Err(); err != nil {
		return dataroom.ContentCounts{}, err
	}

	counts := dataroom.ContentCounts{}

	err := s.db.View(func(txn *badger.Txn) error {
		folder, found, err := getFolder(txn, folderID)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}

		descendants, err := collectDescendantFolders(txn, folder.DataroomID, folderID)
		if err != nil {
			return err
		}
		counts.Folders = len(descendants)

		for _, target := range append(descendants, folderID) {
			fileIDs, err := scanValues(txn, keyFileChildPrefix(folder.DataroomID, target))
			if err != nil {
				return err
			}
			counts.Files += len(fileIDs)
		}
		return nil
	})
	if err != nil {
		return dataroom.ContentCounts{}, err
	}
	return counts, nil
}

// CalculateFileSize sums file sizes over the folder and all descendants.
// Computed on demand; nothing is cached or stored.
func (s *Store) CalculateFileSize(ctx context.Context, folderID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var total int64

	err := s.db.View(func(txn *badger.Txn) error {
		folder, found, err := getFolder(txn, folderID)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}

		descendants, err := collectDescendantFolders(txn, folder.DataroomID, folderID)
		if err != nil {
			return err
		}

		for _, target := range append(descendants, folderID) {
			fileIDs, err := scanValues(txn, keyFileChildPrefix(folder.DataroomID, target))
			if err != nil {
				return err
			}
			for _, fileID := range fileIDs {
				file, found, err := getFile(txn, fileID)
				if err != nil {
					return err
				}
				if !found {
					continue
				}
				total += file.Size
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// collectDescendantFolders gathers the ids of every folder below folderID
// using an explicit work-list over the sibling index, so deep trees cannot
// overflow the stack.
func collectDescendantFolders(txn *badger.Txn, dataroomID, folderID string) ([]string, error) {
	var all []string

	stack := []string{folderID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := scanValues(txn, keyFolderChildPrefix(dataroomID, current))
		if err != nil {
			return nil, err
		}
		all = append(all, children...)
		stack = append(stack, children...)
	}

	return all, nil
}

// sortFolderContents orders both lists by name, case-insensitive, ascending.
func sortFolderContents(contents *dataroom.FolderContents) {
	sort.Slice(contents.Folders, func(i, j int) bool {
		return strings.ToLower(contents.Folders[i].Name) < strings.ToLower(contents.Folders[j].Name)
	})
	sort.Slice(contents.Files, func(i, j int) bool {
		return strings.ToLower(contents.Files[i].Name) < strings.ToLower(contents.Files[j].Name)
	})
}

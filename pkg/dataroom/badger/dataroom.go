package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"dataroom/pkg/dataroom"
)

// ListDatarooms returns all datarooms, newest first.
func (s *Store) ListDatarooms(ctx context.Context) ([]dataroom.Dataroom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rooms := []dataroom.Dataroom{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixDataroom)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				d, err := decodeDataroom(val)
				if err != nil {
					return err
				}
				rooms = append(rooms, *d)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})

	return rooms, nil
}

// GetDataroom returns a dataroom by id.
func (s *Store) GetDataroom(ctx context.Context, id string) (*dataroom.Dataroom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var room *dataroom.Dataroom

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyDataroom(id))
		if err == badger.ErrKeyNotFound {
			return &dataroom.StoreError{
				Code:    dataroom.ErrNotFound,
				Message: dataroom.MsgDataroomNotFound,
				Path:    id,
			}
		}
		if err != nil {
			return fmt.Errorf("failed to get dataroom: %w", err)
		}

		return item.Value(func(val []byte) error {
			d, err := decodeDataroom(val)
			if err != nil {
				return err
			}
			room = d
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// CreateDataroom creates a dataroom and its root folder in one transaction:
// both records land or neither does. The name must be unique among all
// datarooms, compared case-sensitively. The duplicate check is a point lookup
// on the name index inside the same transaction as the writes, so two
// concurrent creates with the same name cannot both succeed.
func (s *Store) CreateDataroom(ctx context.Context, name string) (*dataroom.Dataroom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	room := &dataroom.Dataroom{
		ID:           uuid.NewString(),
		Name:         name,
		RootFolderID: uuid.NewString(),
		CreatedAt:    now,
	}
	root := &dataroom.Folder{
		ID:         room.RootFolderID,
		DataroomID: room.ID,
		Name:       dataroom.RootFolderName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(keyDataroomName(name))
		if err == nil {
			return &dataroom.StoreError{
				Code:    dataroom.ErrDuplicateName,
				Message: dataroom.MsgDuplicateDataroom,
				Path:    name,
			}
		}
		if err != badger.ErrKeyNotFound {
			return fmt.Errorf("failed to check dataroom name: %w", err)
		}

		roomBytes, err := encodeDataroom(room)
		if err != nil {
			return err
		}
		rootBytes, err := encodeFolder(root)
		if err != nil {
			return err
		}

		if err := txn.Set(keyDataroom(room.ID), roomBytes); err != nil {
			return fmt.Errorf("failed to store dataroom: %w", err)
		}
		if err := txn.Set(keyDataroomName(name), []byte(room.ID)); err != nil {
			return fmt.Errorf("failed to store dataroom name index: %w", err)
		}
		if err := txn.Set(keyFolder(root.ID), rootBytes); err != nil {
			return fmt.Errorf("failed to store root folder: %w", err)
		}
		if err := txn.Set(keyFolderChild(room.ID, "", root.Name), []byte(root.ID)); err != nil {
			return fmt.Errorf("failed to store root folder index: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return room, nil
}

// DeleteDataroom deletes the dataroom and every folder and file it owns, as
// one transaction. Deleting a missing dataroom is a no-op, and dependents
// never block the delete: the cascade is unconditional.
func (s *Store) DeleteDataroom(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var orphanedBlobs []string

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(keyDataroom(id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get dataroom: %w", err)
		}

		var room *dataroom.Dataroom
		err = item.Value(func(val []byte) error {
			d, err := decodeDataroom(val)
			if err != nil {
				return err
			}
			room = d
			return nil
		})
		if err != nil {
			return err
		}

		// The sibling indexes are prefixed by dataroom id, so the whole
		// cascade scope is two prefix scans.
		folderIDs, err := scanValues(txn, keyFolderScopePrefix(id))
		if err != nil {
			return err
		}
		fileIDs, err := scanValues(txn, keyFileScopePrefix(id))
		if err != nil {
			return err
		}
		folderKeys, err := scanKeys(txn, keyFolderScopePrefix(id))
		if err != nil {
			return err
		}
		fileKeys, err := scanKeys(txn, keyFileScopePrefix(id))
		if err != nil {
			return err
		}

		for _, folderID := range folderIDs {
			if err := txn.Delete(keyFolder(folderID)); err != nil {
				return fmt.Errorf("failed to delete folder: %w", err)
			}
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
		for _, key := range folderKeys {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("failed to delete folder index: %w", err)
			}
		}
		for _, key := range fileKeys {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("failed to delete file index: %w", err)
			}
		}

		if err := txn.Delete(keyDataroomName(room.Name)); err != nil {
			return fmt.Errorf("failed to delete dataroom name index: %w", err)
		}
		if err := txn.Delete(keyDataroom(id)); err != nil {
			return fmt.Errorf("failed to delete dataroom: %w", err)
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

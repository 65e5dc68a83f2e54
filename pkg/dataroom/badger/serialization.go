package badger

import (
	"encoding/json"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"dataroom/pkg/dataroom"
)

// Entity records are stored as JSON. The records are small and the workload
// is metadata-sized, so debuggability wins over a binary encoding. Index
// values (entity IDs) are stored as raw bytes and need no codec.

func encodeDataroom(d *dataroom.Dataroom) ([]byte, error) {
	bytes, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode dataroom: %w", err)
	}
	return bytes, nil
}

func decodeDataroom(raw []byte) (*dataroom.Dataroom, error) {
	var d dataroom.Dataroom
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to decode dataroom: %w", err)
	}
	return &d, nil
}

func encodeFolder(f *dataroom.Folder) ([]byte, error) {
	bytes, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode folder: %w", err)
	}
	return bytes, nil
}

func decodeFolder(raw []byte) (*dataroom.Folder, error) {
	var f dataroom.Folder
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to decode folder: %w", err)
	}
	return &f, nil
}

func encodeFile(f *dataroom.FileMetadata) ([]byte, error) {
	bytes, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode file metadata: %w", err)
	}
	return bytes, nil
}

func decodeFile(raw []byte) (*dataroom.FileMetadata, error) {
	var f dataroom.FileMetadata
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to decode file metadata: %w", err)
	}
	return &f, nil
}

// getFolder loads a folder record inside a transaction. The bool result is
// false when the record does not exist; callers decide whether that is an
// error or a condition to tolerate.
func getFolder(txn *badger.Txn, id string) (*dataroom.Folder, bool, error) {
	item, err := txn.Get(keyFolder(id))
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get folder: %w", err)
	}

	var folder *dataroom.Folder
	err = item.Value(func(val []byte) error {
		f, err := decodeFolder(val)
		if err != nil {
			return err
		}
		folder = f
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return folder, true, nil
}

// getFile loads a file metadata record inside a transaction.
func getFile(txn *badger.Txn, id string) (*dataroom.FileMetadata, bool, error) {
	item, err := txn.Get(keyFile(id))
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get file: %w", err)
	}

	var file *dataroom.FileMetadata
	err = item.Value(func(val []byte) error {
		f, err := decodeFile(val)
		if err != nil {
			return err
		}
		file = f
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return file, true, nil
}

package badger

import (
	"context"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"dataroom/pkg/dataroom"
)

// SearchAllDatarooms matches query as a case-insensitive substring against
// folder and file names across every dataroom.
//
// Search is not scoped to a dataroom on purpose: it backs the global search
// bar. An empty or whitespace-only query returns empty result sets rather
// than everything. Matching is over names only; there is no content search.
func (s *Store) SearchAllDatarooms(ctx context.Context, query string) (*dataroom.FolderContents, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := &dataroom.FolderContents{
		Folders: []dataroom.Folder{},
		Files:   []dataroom.FileMetadata{},
	}

	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return results, nil
	}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixFolder)

		it := txn.NewIterator(opts)
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				folder, err := decodeFolder(val)
				if err != nil {
					return err
				}
				if strings.Contains(strings.ToLower(folder.Name), term) {
					results.Folders = append(results.Folders, *folder)
				}
				return nil
			})
			if err != nil {
				it.Close()
				return err
			}
		}
		it.Close()

		opts = badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixFile)

		it = txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				file, err := decodeFile(val)
				if err != nil {
					return err
				}
				if strings.Contains(strings.ToLower(file.Name), term) {
					results.Files = append(results.Files, *file)
				}
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

	sortFolderContents(results)
	return results, nil
}

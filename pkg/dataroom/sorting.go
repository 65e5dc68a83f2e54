package dataroom

import (
	"sort"
	"strings"
	"time"
)

// SortField selects which attribute a merged listing is ordered by.
type SortField string

const (
	SortByName     SortField = "name"
	SortByModified SortField = "modified"
	SortBySize     SortField = "size"
)

// SortOrder selects the direction of a merged listing.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortConfig pairs a sort field with a direction.
type SortConfig struct {
	Field SortField
	Order SortOrder
}

// ItemType tags the variant held by an Item.
type ItemType string

const (
	ItemFolder ItemType = "folder"
	ItemFile   ItemType = "file"
)

// Item is a tagged union over Folder and FileMetadata, used wherever the two
// entity kinds appear in a single display sequence. Exactly one of Folder and
// File is non-nil, matching Type.
type Item struct {
	Type   ItemType
	Folder *Folder
	File   *FileMetadata
}

// Name returns the display name of the wrapped entity.
func (it Item) Name() string {
	if it.Type == ItemFolder {
		return it.Folder.Name
	}
	return it.File.Name
}

// ModifiedAt returns the wrapped entity's last-modification time.
func (it Item) ModifiedAt() time.Time {
	if it.Type == ItemFolder {
		return it.Folder.UpdatedAt
	}
	return it.File.UpdatedAt
}

// SizeBytes returns the file size, or 0 for folders. A folder's aggregate
// content size is a separate on-demand computation (Store.CalculateFileSize)
// and deliberately does not participate in sorting.
func (it Item) SizeBytes() int64 {
	if it.Type == ItemFile {
		return it.File.Size
	}
	return 0
}

// MergeContents combines folders and files into one ordered display sequence.
// The two kinds are interleaved, not partitioned. Name comparison is
// case-insensitive; descending order negates the comparison. The sort is
// stable, so items with equal keys keep their combined input order
// (folders first, then files, each in input order). Input slices are never
// mutated.
func MergeContents(folders []Folder, files []FileMetadata, cfg SortConfig) []Item {
	items := make([]Item, 0, len(folders)+len(files))
	for i := range folders {
		items = append(items, Item{Type: ItemFolder, Folder: &folders[i]})
	}
	for i := range files {
		items = append(items, Item{Type: ItemFile, File: &files[i]})
	}

	sort.SliceStable(items, func(i, j int) bool {
		c := compareItems(items[i], items[j], cfg.Field)
		if cfg.Order == SortDesc {
			return c > 0
		}
		return c < 0
	})

	return items
}

func compareItems(a, b Item, field SortField) int {
	switch field {
	case SortByModified:
		am, bm := a.ModifiedAt(), b.ModifiedAt()
		switch {
		case am.Before(bm):
			return -1
		case am.After(bm):
			return 1
		}
		return 0
	case SortBySize:
		switch {
		case a.SizeBytes() < b.SizeBytes():
			return -1
		case a.SizeBytes() > b.SizeBytes():
			return 1
		}
		return 0
	default:
		return strings.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name()))
	}
}

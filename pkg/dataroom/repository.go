package dataroom

import "context"

// Store is the sole mutator and query surface over the persisted entities.
// It owns all invariant enforcement and cascade logic.
//
// Every multi-record mutation (dataroom creation with its root folder,
// dataroom deletion, folder cascade deletion) is applied atomically: readers
// never observe a partially-applied state. Duplicate-name checks are
// revalidated inside the same transaction as the write, so a stale check in
// the caller can never corrupt the uniqueness invariants.
//
// Informational aggregates (CountFolderContents, CalculateFileSize) degrade
// gracefully on dangling references and return zero values instead of
// failing; they back non-critical previews. GetFolderPath likewise truncates
// the walk on a broken parent link rather than erroring, since a dangling
// reference must not crash navigation.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Store interface {
	// ListDatarooms returns all datarooms ordered by creation time, newest
	// first.
	ListDatarooms(ctx context.Context) ([]Dataroom, error)

	// GetDataroom returns the dataroom with the given id, or ErrNotFound.
	GetDataroom(ctx context.Context, id string) (*Dataroom, error)

	// CreateDataroom creates a dataroom and its root folder as a unit.
	// It fails with ErrDuplicateName if a dataroom with the exact same name
	// (case-sensitive) already exists.
	CreateDataroom(ctx context.Context, name string) (*Dataroom, error)

	// DeleteDataroom deletes the dataroom and every folder and file it owns
	// in one transaction. Deleting a missing dataroom is not an error.
	DeleteDataroom(ctx context.Context, id string) error

	// GetFolderContents returns the direct children of folderID: folders
	// whose parent is folderID and files stored in it, each list sorted by
	// name, case-insensitive, ascending.
	GetFolderContents(ctx context.Context, dataroomID, folderID string) (*FolderContents, error)

	// GetFolder returns the folder with the given id, or ErrNotFound.
	GetFolder(ctx context.Context, folderID string) (*Folder, error)

	// GetFolderPath returns the ancestor chain of folderID in root-to-target
	// order. A broken parent link truncates the path instead of failing.
	GetFolderPath(ctx context.Context, folderID string) ([]Folder, error)

	// CreateFolder creates a folder under parentID. It fails with
	// ErrDuplicateName if a sibling already has that name
	// (case-insensitive).
	CreateFolder(ctx context.Context, dataroomID, parentID, name string) (*Folder, error)

	// RenameFolder renames a folder and bumps its UpdatedAt. It fails with
	// ErrNotFound if the folder is gone and with ErrDuplicateName if a
	// different sibling already has that name (case-insensitive). Renaming
	// a folder to its own name, or to a different casing of it, succeeds.
	RenameFolder(ctx context.Context, folderID, name string) error

	// DeleteFolderCascade deletes the folder, every descendant folder, and
	// every file any of them owns, as one transaction.
	DeleteFolderCascade(ctx context.Context, folderID string) error

	// CountFolderContents counts descendant folders and transitively owned
	// files. Purely informational; a missing folder yields zero counts.
	CountFolderContents(ctx context.Context, folderID string) (ContentCounts, error)

	// CalculateFileSize sums the sizes of all files in the folder and every
	// descendant folder. Computed on demand, never cached.
	CalculateFileSize(ctx context.Context, folderID string) (int64, error)

	// UploadFile stores a new file. Name collisions never fail the upload:
	// the stored name is resolved to a free one by numeric suffixing.
	UploadFile(ctx context.Context, up Upload) (*FileMetadata, error)

	// GetFile returns file metadata without the payload, or ErrNotFound.
	GetFile(ctx context.Context, fileID string) (*FileMetadata, error)

	// GetFileBlob returns the file's binary payload, or ErrNotFound.
	GetFileBlob(ctx context.Context, fileID string) ([]byte, error)

	// RenameFile renames a file with the same duplicate-check discipline as
	// RenameFolder, scoped to the file's folder.
	RenameFile(ctx context.Context, fileID, name string) error

	// DeleteFile deletes a single file record and its payload.
	DeleteFile(ctx context.Context, fileID string) error

	// SearchAllDatarooms matches query as a case-insensitive substring
	// against folder and file names across every dataroom. An empty or
	// whitespace-only query returns empty result sets. Results are sorted
	// by name ascending, folders and files independently.
	SearchAllDatarooms(ctx context.Context, query string) (*FolderContents, error)

	// Close releases the store's resources. The store must not be used
	// after Close returns.
	Close() error
}

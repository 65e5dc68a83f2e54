// Package dataroom defines the domain model and repository contract for the
// dataroom manager: isolated workspaces ("datarooms"), each holding one folder
// tree with PDF files, persisted in a local embedded entity store.
//
// The package itself is storage-agnostic. Concrete stores live in the badger
// and memory subpackages; both are exercised by the shared acceptance suite
// in storetest.
package dataroom

import "time"

// RootFolderName is the name given to the distinguished root folder that is
// created atomically with every dataroom.
const RootFolderName = "Root"

// Dataroom is a top-level isolated workspace. It owns exactly one folder tree,
// rooted at RootFolderID. Datarooms are immutable after creation except via
// deletion, which cascades to every folder and file they own.
type Dataroom struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	RootFolderID string    `json:"root_folder_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Folder is a node in a dataroom's folder tree.
//
// ParentID is empty for exactly one folder per dataroom: the root. Within one
// (DataroomID, ParentID) pair no two folders share a name under
// case-insensitive comparison. UpdatedAt changes only on rename.
type Folder struct {
	ID         string    `json:"id"`
	DataroomID string    `json:"dataroom_id"`
	ParentID   string    `json:"parent_id,omitempty"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsRoot reports whether f is the root folder of its dataroom.
func (f *Folder) IsRoot() bool {
	return f.ParentID == ""
}

// FileMetadata describes a stored file without its binary payload.
//
// Within one (DataroomID, FolderID) pair no two files share a name under
// case-insensitive comparison; uploads resolve collisions by suffixing
// rather than failing (see UniqueName). UpdatedAt changes only on rename.
type FileMetadata struct {
	ID         string    `json:"id"`
	DataroomID string    `json:"dataroom_id"`
	FolderID   string    `json:"folder_id"`
	Name       string    `json:"name"`
	MIME       string    `json:"mime"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FolderContents holds the direct, non-recursive children of a folder, or a
// search result set. Both slices are sorted by name, case-insensitive,
// ascending.
type FolderContents struct {
	Folders []Folder       `json:"folders"`
	Files   []FileMetadata `json:"files"`
}

// ContentCounts summarizes the transitive contents of a folder: the number of
// descendant folders (excluding the folder itself) and the number of files in
// the folder and every descendant. Used to preview cascade-delete impact.
type ContentCounts struct {
	Folders int `json:"folders"`
	Files   int `json:"files"`
}

// Upload carries the inputs for storing a new file. Size is derived from the
// payload; MIME is the caller-declared content type and is stored as given.
// The store does not enforce type or size policy (that is the presentation
// layer's job), but it must tolerate anything it is handed.
type Upload struct {
	DataroomID string
	FolderID   string
	Name       string
	MIME       string
	Data       []byte
}

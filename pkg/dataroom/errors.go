package dataroom

import "errors"

// StoreError represents a domain error from repository operations.
//
// These are business logic errors (duplicate name, missing entity) as opposed
// to infrastructure errors (disk failure, corrupt record). The Message field
// is user-facing and surfaced verbatim by the presentation layer.
type StoreError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Path identifies the entity related to the error (if applicable)
	Path string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Path != "" {
		return e.Message + ": " + e.Path
	}
	return e.Message
}

// ErrorCode represents the category of a repository error.
type ErrorCode int

const (
	// ErrNotFound indicates the requested dataroom/folder/file doesn't exist
	ErrNotFound ErrorCode = iota

	// ErrDuplicateName indicates a sibling with the same name already exists.
	// Dataroom names collide case-sensitively; folder and file names collide
	// case-insensitively within their parent.
	ErrDuplicateName

	// ErrInvalidArgument indicates invalid parameters were provided
	ErrInvalidArgument

	// ErrIOError indicates the underlying storage failed
	ErrIOError
)

// User-facing failure messages. These are fixed strings the presentation
// layer shows directly.
const (
	MsgDuplicateDataroom = "A dataroom with this name already exists"
	MsgDuplicateItem     = "An item with this name already exists"
	MsgDataroomNotFound  = "Dataroom not found"
	MsgFolderNotFound    = "Folder not found"
	MsgFileNotFound      = "File not found"
)

// IsNotFound reports whether err is a StoreError with code ErrNotFound.
func IsNotFound(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Code == ErrNotFound
}

// IsDuplicateName reports whether err is a StoreError with code
// ErrDuplicateName.
func IsDuplicateName(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Code == ErrDuplicateName
}

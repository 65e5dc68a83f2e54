package badger

import "strings"

// Database Key Namespace Design
// ==============================
//
// BadgerDB is a key-value store, so the three logical tables (datarooms,
// folders, files) and their compound-key lookups are laid out as prefixed
// key namespaces:
//
// Data Type              Prefix  Key Format                          Value
// ===========================================================================
// Dataroom               "d:"    d:<dataroomID>                      Dataroom (JSON)
// Dataroom Name Index    "dn:"   dn:<name>                           dataroomID
// Folder                 "f:"    f:<folderID>                        Folder (JSON)
// Folder Sibling Index   "fc:"   fc:<dataroomID>:<parentID>:<lname>  folderID
// File                   "i:"    i:<fileID>                          FileMetadata (JSON)
// File Sibling Index     "fn:"   fn:<dataroomID>:<folderID>:<lname>  fileID
// Blob (embedded mode)   "b:"    b:<fileID>                          payload bytes
//
// Design rationale:
//
//  1. Sibling indexes store the name lowercased (<lname>), so the
//     case-insensitive duplicate check for folders and files is a single
//     point lookup inside the writing transaction.
//
//  2. The dataroom name index stores the name as-is: dataroom uniqueness is
//     case-sensitive, unlike folders and files.
//
//  3. Sibling index keys double as the hierarchy index. Listing the children
//     of a folder is a prefix scan of "fc:<dataroomID>:<parentID>:", and
//     because every folder and file entry starts with its dataroom id, the
//     scope of a whole-dataroom cascade is the prefix scan of
//     "fc:<dataroomID>:" / "fn:<dataroomID>:".
//
//  4. IDs are UUIDv4 strings and contain no ':', so the name is always the
//     final segment and may itself contain anything, including ':'.
//
//  5. The root folder is indexed with an empty parent segment
//     ("fc:<dataroomID>::root"), which keeps rename duplicate checks uniform
//     for the root without a special case.
const (
	prefixDataroom     = "d:"
	prefixDataroomName = "dn:"
	prefixFolder       = "f:"
	prefixFolderChild  = "fc:"
	prefixFile         = "i:"
	prefixFileChild    = "fn:"
	prefixBlob         = "b:"
)

func keyDataroom(id string) []byte {
	return []byte(prefixDataroom + id)
}

func keyDataroomName(name string) []byte {
	return []byte(prefixDataroomName + name)
}

func keyFolder(id string) []byte {
	return []byte(prefixFolder + id)
}

// keyFolderChild is the sibling-index key for a folder name under a parent.
// The name segment is lowercased to make the index case-insensitive.
func keyFolderChild(dataroomID, parentID, name string) []byte {
	return []byte(prefixFolderChild + dataroomID + ":" + parentID + ":" + strings.ToLower(name))
}

// keyFolderChildPrefix scans all direct child folders of a parent.
func keyFolderChildPrefix(dataroomID, parentID string) []byte {
	return []byte(prefixFolderChild + dataroomID + ":" + parentID + ":")
}

// keyFolderScopePrefix scans every folder index entry of a dataroom.
func keyFolderScopePrefix(dataroomID string) []byte {
	return []byte(prefixFolderChild + dataroomID + ":")
}

func keyFile(id string) []byte {
	return []byte(prefixFile + id)
}

// keyFileChild is the sibling-index key for a file name within a folder.
func keyFileChild(dataroomID, folderID, name string) []byte {
	return []byte(prefixFileChild + dataroomID + ":" + folderID + ":" + strings.ToLower(name))
}

// keyFileChildPrefix scans all files directly inside a folder.
func keyFileChildPrefix(dataroomID, folderID string) []byte {
	return []byte(prefixFileChild + dataroomID + ":" + folderID + ":")
}

// keyFileScopePrefix scans every file index entry of a dataroom.
func keyFileScopePrefix(dataroomID string) []byte {
	return []byte(prefixFileChild + dataroomID + ":")
}

func keyBlob(id string) []byte {
	return []byte(prefixBlob + id)
}

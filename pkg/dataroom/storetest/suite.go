// Package storetest provides a reusable acceptance suite for dataroom.Store
// implementations. It tests the interface contract, not implementation
// details, so the same suite runs against the BadgerDB and in-memory
// backends.
package storetest

import (
	"context"
	"testing"

	"dataroom/pkg/dataroom"
)

// StoreTestSuite exercises the full dataroom.Store contract.
//
// Usage:
//
//	func TestMyStore(t *testing.T) {
//	    suite := &storetest.StoreTestSuite{
//	        NewStore: func(t *testing.T) dataroom.Store {
//	            return mystore.New()
//	        },
//	    }
//	    suite.Run(t)
//	}
type StoreTestSuite struct {
	// NewStore creates a fresh store for each test. Implementations should
	// register cleanup on t so the suite stays backend-agnostic.
	NewStore func(t *testing.T) dataroom.Store
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(t *testing.T) {
	t.Run("Datarooms", suite.RunDataroomTests)
	t.Run("Folders", suite.RunFolderTests)
	t.Run("Files", suite.RunFileTests)
	t.Run("Search", suite.RunSearchTests)
}

func testContext() context.Context {
	return context.Background()
}

// mustCreateDataroom creates a dataroom and fails the test on error.
func mustCreateDataroom(t *testing.T, store dataroom.Store, name string) *dataroom.Dataroom {
	t.Helper()
	room, err := store.CreateDataroom(testContext(), name)
	if err != nil {
		t.Fatalf("CreateDataroom(%q): %v", name, err)
	}
	return room
}

// mustCreateFolder creates a folder and fails the test on error.
func mustCreateFolder(t *testing.T, store dataroom.Store, dataroomID, parentID, name string) *dataroom.Folder {
	t.Helper()
	folder, err := store.CreateFolder(testContext(), dataroomID, parentID, name)
	if err != nil {
		t.Fatalf("CreateFolder(%q): %v", name, err)
	}
	return folder
}

// mustUploadFile uploads a small payload and fails the test on error.
func mustUploadFile(t *testing.T, store dataroom.Store, dataroomID, folderID, name string, data []byte) *dataroom.FileMetadata {
	t.Helper()
	meta, err := store.UploadFile(testContext(), dataroom.Upload{
		DataroomID: dataroomID,
		FolderID:   folderID,
		Name:       name,
		MIME:       "application/pdf",
		Data:       data,
	})
	if err != nil {
		t.Fatalf("UploadFile(%q): %v", name, err)
	}
	return meta
}

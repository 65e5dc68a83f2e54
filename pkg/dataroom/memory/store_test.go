package memory

import (
	"context"
	"sync"
	"testing"

	"dataroom/pkg/dataroom"
	"dataroom/pkg/dataroom/storetest"
)

// TestStoreContract runs the shared acceptance suite against the in-memory
// backend.
func TestStoreContract(t *testing.T) {
	suite := &storetest.StoreTestSuite{
		NewStore: func(t *testing.T) dataroom.Store {
			return NewStore()
		},
	}
	suite.Run(t)
}

// TestConcurrentUploads checks that parallel uploads into the same folder all
// land with distinct names. Run with -race.
func TestConcurrentUploads(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	room, err := store.CreateDataroom(ctx, "Alpha")
	if err != nil {
		t.Fatalf("CreateDataroom: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := store.UploadFile(ctx, dataroom.Upload{
				DataroomID: room.ID,
				FolderID:   room.RootFolderID,
				Name:       "report.pdf",
				MIME:       "application/pdf",
				Data:       []byte("%PDF"),
			})
			if err != nil {
				t.Errorf("UploadFile: %v", err)
			}
		}()
	}
	wg.Wait()

	contents, err := store.GetFolderContents(ctx, room.ID, room.RootFolderID)
	if err != nil {
		t.Fatalf("GetFolderContents: %v", err)
	}
	if len(contents.Files) != workers {
		t.Fatalf("expected %d files, got %d", workers, len(contents.Files))
	}

	seen := make(map[string]bool)
	for _, file := range contents.Files {
		if seen[file.Name] {
			t.Errorf("duplicate file name %q", file.Name)
		}
		seen[file.Name] = true
	}
}

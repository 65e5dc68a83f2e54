package badger

import (
	"context"
	"errors"
	"testing"

	badgerdb "github.com/dgraph-io/badger/v4"

	blobmemory "dataroom/pkg/blob/memory"
	"dataroom/pkg/dataroom"
	"dataroom/pkg/dataroom/storetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), Config{DBPath: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// TestStoreContract runs the shared acceptance suite against the BadgerDB
// backend with embedded payloads.
func TestStoreContract(t *testing.T) {
	suite := &storetest.StoreTestSuite{
		NewStore: func(t *testing.T) dataroom.Store {
			return newTestStore(t)
		},
	}
	suite.Run(t)
}

// TestStoreContractExternalBlobs runs the same suite with payloads in an
// external blob store.
func TestStoreContractExternalBlobs(t *testing.T) {
	suite := &storetest.StoreTestSuite{
		NewStore: func(t *testing.T) dataroom.Store {
			store, err := NewStore(context.Background(), Config{
				DBPath: t.TempDir(),
				Blobs:  blobmemory.NewStore(),
			})
			if err != nil {
				t.Fatalf("failed to open store: %v", err)
			}
			t.Cleanup(func() { _ = store.Close() })
			return store
		},
	}
	suite.Run(t)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(ctx, Config{DBPath: dir})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	room, err := store.CreateDataroom(ctx, "Durable")
	if err != nil {
		t.Fatalf("CreateDataroom: %v", err)
	}
	meta, err := store.UploadFile(ctx, dataroom.Upload{
		DataroomID: room.ID,
		FolderID:   room.RootFolderID,
		Name:       "report.pdf",
		MIME:       "application/pdf",
		Data:       []byte("%PDF-1.4 payload"),
	})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore(ctx, Config{DBPath: dir})
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetDataroom(ctx, room.ID)
	if err != nil {
		t.Fatalf("GetDataroom after reopen: %v", err)
	}
	if got.Name != "Durable" {
		t.Errorf("dataroom name = %q, want %q", got.Name, "Durable")
	}

	blob, err := reopened.GetFileBlob(ctx, meta.ID)
	if err != nil {
		t.Fatalf("GetFileBlob after reopen: %v", err)
	}
	if string(blob) != "%PDF-1.4 payload" {
		t.Errorf("blob = %q, want original payload", blob)
	}
}

// TestTransactionRollback verifies that a failing write transaction leaves no
// partial state behind, which is the property every multi-record operation in
// this store relies on.
func TestTransactionRollback(t *testing.T) {
	store := newTestStore(t)
	injected := errors.New("injected failure")

	err := store.db.Update(func(txn *badgerdb.Txn) error {
		if err := txn.Set(keyDataroom("partial-id"), []byte(`{"id":"partial-id"}`)); err != nil {
			return err
		}
		if err := txn.Set(keyDataroomName("Partial"), []byte("partial-id")); err != nil {
			return err
		}
		return injected
	})
	if !errors.Is(err, injected) {
		t.Fatalf("Update returned %v, want injected failure", err)
	}

	viewErr := store.db.View(func(txn *badgerdb.Txn) error {
		if _, err := txn.Get(keyDataroom("partial-id")); !errors.Is(err, badgerdb.ErrKeyNotFound) {
			t.Errorf("dataroom record survived rollback: %v", err)
		}
		if _, err := txn.Get(keyDataroomName("Partial")); !errors.Is(err, badgerdb.ErrKeyNotFound) {
			t.Errorf("name index survived rollback: %v", err)
		}
		return nil
	})
	if viewErr != nil {
		t.Fatalf("View: %v", viewErr)
	}

	rooms, err := store.ListDatarooms(context.Background())
	if err != nil {
		t.Fatalf("ListDatarooms: %v", err)
	}
	if len(rooms) != 0 {
		t.Errorf("expected no datarooms after rollback, got %d", len(rooms))
	}
}

// TestExternalBlobDeletedWithFile checks that deleting a file removes its
// payload from the external blob store.
func TestExternalBlobDeletedWithFile(t *testing.T) {
	ctx := context.Background()
	blobs := blobmemory.NewStore()

	store, err := NewStore(ctx, Config{DBPath: t.TempDir(), Blobs: blobs})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	room, err := store.CreateDataroom(ctx, "Alpha")
	if err != nil {
		t.Fatalf("CreateDataroom: %v", err)
	}
	meta, err := store.UploadFile(ctx, dataroom.Upload{
		DataroomID: room.ID,
		FolderID:   room.RootFolderID,
		Name:       "report.pdf",
		MIME:       "application/pdf",
		Data:       []byte("%PDF"),
	})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}

	if _, err := blobs.Get(ctx, meta.ID); err != nil {
		t.Fatalf("payload missing from blob store after upload: %v", err)
	}

	if err := store.DeleteFile(ctx, meta.ID); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, err := blobs.Get(ctx, meta.ID); err == nil {
		t.Error("payload still present in blob store after delete")
	}
}

package gc

import (
	"context"
	"testing"
	"time"

	blobmemory "dataroom/pkg/blob/memory"
	"dataroom/pkg/dataroom"
	badgerstore "dataroom/pkg/dataroom/badger"
)

// newStores returns a badger store wired to an external in-memory blob store,
// which is the only placement the collector operates on.
func newStores(t *testing.T) (dataroom.Store, *blobmemory.Store) {
	t.Helper()
	blobs := blobmemory.NewStore()
	store, err := badgerstore.NewStore(context.Background(), badgerstore.Config{
		DBPath: t.TempDir(),
		Blobs:  blobs,
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, blobs
}

func uploadOne(t *testing.T, store dataroom.Store) *dataroom.FileMetadata {
	t.Helper()
	ctx := context.Background()
	room, err := store.CreateDataroom(ctx, "gc-test-"+t.Name())
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
	return meta
}

func TestNewCollectorRequiresBlobStore(t *testing.T) {
	store, _ := newStores(t)

	if _, err := NewCollector(store, nil, Config{}); err == nil {
		t.Error("expected error for nil blob store")
	}
}

func TestSweepRemovesOrphans(t *testing.T) {
	ctx := context.Background()
	store, blobs := newStores(t)

	kept := uploadOne(t, store)

	// Simulate a crash between the payload write and the metadata commit.
	if err := blobs.Put(ctx, "orphan-1", []byte("%PDF")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := blobs.Put(ctx, "orphan-2", []byte("%PDF")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	collector, err := NewCollector(store, blobs, Config{})
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	stats, err := collector.RunNow(ctx)
	if err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if stats.ScannedCount != 3 {
		t.Errorf("scanned = %d, want 3", stats.ScannedCount)
	}
	if stats.OrphanedCount != 2 || stats.DeletedCount != 2 {
		t.Errorf("orphaned/deleted = %d/%d, want 2/2", stats.OrphanedCount, stats.DeletedCount)
	}

	// Referenced payload survives, orphans are gone.
	if _, err := blobs.Get(ctx, kept.ID); err != nil {
		t.Errorf("referenced blob deleted: %v", err)
	}
	for _, id := range []string{"orphan-1", "orphan-2"} {
		if _, err := blobs.Get(ctx, id); err == nil {
			t.Errorf("orphan %s still present", id)
		}
	}
}

func TestSweepDryRunKeepsOrphans(t *testing.T) {
	ctx := context.Background()
	store, blobs := newStores(t)

	if err := blobs.Put(ctx, "orphan", []byte("%PDF")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	collector, err := NewCollector(store, blobs, Config{DryRun: true})
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	stats, err := collector.RunNow(ctx)
	if err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if stats.OrphanedCount != 1 {
		t.Errorf("orphaned = %d, want 1", stats.OrphanedCount)
	}
	if stats.DeletedCount != 0 {
		t.Errorf("deleted = %d, want 0 in dry run", stats.DeletedCount)
	}
	if _, err := blobs.Get(ctx, "orphan"); err != nil {
		t.Errorf("dry run deleted the orphan: %v", err)
	}
}

func TestSweepEmptyStore(t *testing.T) {
	store, blobs := newStores(t)

	collector, err := NewCollector(store, blobs, Config{})
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	stats, err := collector.RunNow(context.Background())
	if err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if stats.ScannedCount != 0 || stats.OrphanedCount != 0 {
		t.Errorf("expected empty sweep, got %s", stats.Summary())
	}
}

func TestStartStopDisabled(t *testing.T) {
	store, blobs := newStores(t)

	collector, err := NewCollector(store, blobs, Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	// Both are no-ops when disabled.
	collector.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := collector.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestStartStopEnabled(t *testing.T) {
	store, blobs := newStores(t)

	collector, err := NewCollector(store, blobs, Config{
		Enabled:  true,
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	collector.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := collector.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

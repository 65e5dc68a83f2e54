package config

import (
	"context"
	"testing"
)

func TestCreateStoreMemory(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Type = "memory"

	store, err := CreateStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("CreateStore: %v", err)
	}
	defer func() { _ = store.Close() }()

	if _, err := store.CreateDataroom(context.Background(), "smoke"); err != nil {
		t.Errorf("store not usable: %v", err)
	}
}

func TestCreateStoreBadger(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Badger["db_path"] = t.TempDir()

	store, err := CreateStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("CreateStore: %v", err)
	}
	defer func() { _ = store.Close() }()

	if _, err := store.CreateDataroom(context.Background(), "smoke"); err != nil {
		t.Errorf("store not usable: %v", err)
	}
}

func TestCreateStoreBadgerMissingPath(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Badger["db_path"] = ""

	if _, err := CreateStore(context.Background(), cfg); err == nil {
		t.Error("expected error for empty db_path")
	}
}

func TestCreateStoreUnknownType(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Type = "postgres"

	if _, err := CreateStore(context.Background(), cfg); err == nil {
		t.Error("expected error for unknown store type")
	}
}

func TestCreateBlobStoreEmbedded(t *testing.T) {
	cfg := validConfig()

	blobs, err := CreateBlobStore(context.Background(), &cfg.Blobs)
	if err != nil {
		t.Fatalf("CreateBlobStore: %v", err)
	}
	if blobs != nil {
		t.Error("embedded placement should yield a nil blob store")
	}
}

func TestCreateBlobStoreFilesystem(t *testing.T) {
	cfg := validConfig()
	cfg.Blobs.Type = "filesystem"
	cfg.Blobs.Filesystem["path"] = t.TempDir()

	blobs, err := CreateBlobStore(context.Background(), &cfg.Blobs)
	if err != nil {
		t.Fatalf("CreateBlobStore: %v", err)
	}
	defer func() { _ = blobs.Close() }()

	ctx := context.Background()
	if err := blobs.Put(ctx, "id-1", []byte("payload")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, err := blobs.Get(ctx, "id-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("Get = %q, want payload", data)
	}
}

func TestCreateBlobStoreS3MissingBucket(t *testing.T) {
	cfg := validConfig()
	cfg.Blobs.Type = "s3"
	cfg.Blobs.S3["region"] = "us-east-1"

	if _, err := CreateBlobStore(context.Background(), &cfg.Blobs); err == nil {
		t.Error("expected error for missing bucket")
	}
}

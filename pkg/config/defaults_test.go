package config

import (
	"testing"
	"time"
)

func TestApplyDefaultsEmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("logging.level = %q, want INFO", cfg.Logging.Level)
	}
	if cfg.Store.Type != "badger" {
		t.Errorf("store.type = %q, want badger", cfg.Store.Type)
	}
	if cfg.Blobs.Type != "embedded" {
		t.Errorf("blobs.type = %q, want embedded", cfg.Blobs.Type)
	}
	if cfg.Store.Badger["db_path"] == "" {
		t.Error("store.badger.db_path not defaulted")
	}
	if cfg.Upload.MaxFileSizeBytes != DefaultMaxFileSizeBytes {
		t.Errorf("upload.max_file_size_bytes = %d, want %d",
			cfg.Upload.MaxFileSizeBytes, DefaultMaxFileSizeBytes)
	}
	if len(cfg.Upload.AllowedMIMETypes) != 1 || cfg.Upload.AllowedMIMETypes[0] != DefaultMIMEType {
		t.Errorf("upload.allowed_mime_types = %v, want [%s]",
			cfg.Upload.AllowedMIMETypes, DefaultMIMEType)
	}
	if cfg.GC.Enabled {
		t.Error("gc.enabled should default to false")
	}
	if cfg.GC.Interval != 24*time.Hour {
		t.Errorf("gc.interval = %v, want 24h", cfg.GC.Interval)
	}
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "debug"},
		Store: StoreConfig{
			Type:   "memory",
			Badger: map[string]any{"db_path": "/custom/db"},
		},
		Upload: UploadConfig{
			MaxFileSizeBytes: 1024,
			AllowedMIMETypes: []string{"application/pdf", "image/png"},
		},
		GC: GCConfig{Interval: time.Hour},
	}
	ApplyDefaults(cfg)

	// Level is normalized to uppercase, not replaced.
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("logging.level = %q, want DEBUG", cfg.Logging.Level)
	}
	if cfg.Store.Type != "memory" {
		t.Errorf("store.type = %q, want memory", cfg.Store.Type)
	}
	if cfg.Store.Badger["db_path"] != "/custom/db" {
		t.Errorf("store.badger.db_path = %v, want /custom/db", cfg.Store.Badger["db_path"])
	}
	if cfg.Upload.MaxFileSizeBytes != 1024 {
		t.Errorf("upload.max_file_size_bytes = %d, want 1024", cfg.Upload.MaxFileSizeBytes)
	}
	if len(cfg.Upload.AllowedMIMETypes) != 2 {
		t.Errorf("upload.allowed_mime_types = %v, want two entries", cfg.Upload.AllowedMIMETypes)
	}
	if cfg.GC.Interval != time.Hour {
		t.Errorf("gc.interval = %v, want 1h", cfg.GC.Interval)
	}
}

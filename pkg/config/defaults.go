package config

import (
	"path/filepath"
	"strings"
	"time"
)

// Default upload policy: single-file cap and accepted content types.
const (
	DefaultMaxFileSizeBytes = int64(50 * 1024 * 1024)
	DefaultMIMEType         = "application/pdf"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and
// environment variables to fill in any missing values.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
//   - Store-specific defaults are handled here so a freshly generated config
//     file shows them
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyStoreDefaults(&cfg.Store)
	applyBlobDefaults(&cfg.Blobs)
	applyUploadDefaults(&cfg.Upload)
	applyGCDefaults(&cfg.GC)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)
}

// applyStoreDefaults sets entity store defaults.
func applyStoreDefaults(cfg *StoreConfig) {
	if cfg.Type == "" {
		cfg.Type = "badger"
	}

	if cfg.Badger == nil {
		cfg.Badger = make(map[string]any)
	}
	if cfg.Memory == nil {
		cfg.Memory = make(map[string]any)
	}

	if _, ok := cfg.Badger["db_path"]; !ok {
		cfg.Badger["db_path"] = filepath.Join(getDataDir(), "db")
	}
}

// applyBlobDefaults sets payload placement defaults.
func applyBlobDefaults(cfg *BlobConfig) {
	if cfg.Type == "" {
		cfg.Type = "embedded"
	}

	if cfg.Filesystem == nil {
		cfg.Filesystem = make(map[string]any)
	}
	if cfg.S3 == nil {
		cfg.S3 = make(map[string]any)
	}

	if _, ok := cfg.Filesystem["path"]; !ok {
		cfg.Filesystem["path"] = filepath.Join(getDataDir(), "blobs")
	}
}

// applyUploadDefaults sets the upload policy defaults.
func applyUploadDefaults(cfg *UploadConfig) {
	if cfg.MaxFileSizeBytes == 0 {
		cfg.MaxFileSizeBytes = DefaultMaxFileSizeBytes
	}
	if len(cfg.AllowedMIMETypes) == 0 {
		cfg.AllowedMIMETypes = []string{DefaultMIMEType}
	}
}

// applyGCDefaults sets garbage collection defaults. The collector stays
// disabled unless explicitly enabled.
func applyGCDefaults(cfg *GCConfig) {
	if cfg.Interval == 0 {
		cfg.Interval = 24 * time.Hour
	}
}

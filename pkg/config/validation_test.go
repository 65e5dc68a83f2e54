package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidateDefaults(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "VERBOSE" },
			wantSub: "Logging.Level",
		},
		{
			name:    "bad store type",
			mutate:  func(c *Config) { c.Store.Type = "postgres" },
			wantSub: "Store.Type",
		},
		{
			name:    "bad blob type",
			mutate:  func(c *Config) { c.Blobs.Type = "gcs" },
			wantSub: "Blobs.Type",
		},
		{
			name:    "zero upload cap",
			mutate:  func(c *Config) { c.Upload.MaxFileSizeBytes = 0 },
			wantSub: "Upload.MaxFileSizeBytes",
		},
		{
			name:    "no allowed MIME types",
			mutate:  func(c *Config) { c.Upload.AllowedMIMETypes = nil },
			wantSub: "Upload.AllowedMIMETypes",
		},
		{
			name: "memory store with external blobs",
			mutate: func(c *Config) {
				c.Store.Type = "memory"
				c.Blobs.Type = "filesystem"
			},
			wantSub: "blobs",
		},
		{
			name:    "gc with embedded blobs",
			mutate:  func(c *Config) { c.GC.Enabled = true },
			wantSub: "gc",
		},
		{
			name: "gc with nonpositive interval",
			mutate: func(c *Config) {
				c.Blobs.Type = "filesystem"
				c.GC.Enabled = true
				c.GC.Interval = -time.Minute
			},
			wantSub: "interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestValidateAcceptsLowercaseLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "warn"

	if err := Validate(cfg); err != nil {
		t.Errorf("lowercase level should validate: %v", err)
	}
}

func TestValidateExternalBlobConfigs(t *testing.T) {
	cfg := validConfig()
	cfg.Blobs.Type = "filesystem"
	if err := Validate(cfg); err != nil {
		t.Errorf("filesystem blobs with badger store should validate: %v", err)
	}

	cfg = validConfig()
	cfg.Blobs.Type = "s3"
	if err := Validate(cfg); err != nil {
		t.Errorf("s3 blobs with badger store should validate: %v", err)
	}
}

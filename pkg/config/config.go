package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete dataroom tool configuration.
//
// This structure captures all configurable aspects of the tool including:
//   - Logging configuration
//   - Entity store selection and configuration (store-specific)
//   - Blob store selection and configuration (store-specific)
//   - Upload policy (size and MIME type limits)
//   - Blob garbage collection
//
// Configuration sources (in order of precedence):
//  1. Environment variables (DATAROOM_*)
//  2. Configuration file (YAML or TOML)
//  3. Default values (lowest priority)
//
// Store Configuration Pattern:
// Each store implementation defines its own configuration type and factory
// function. The Config struct contains type-specific sections (e.g.
// store.badger, blobs.s3) and only the section matching the selected type is
// used.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Store specifies the entity store type and type-specific configuration
	Store StoreConfig `mapstructure:"store"`

	// Blobs specifies where file payloads are kept
	Blobs BlobConfig `mapstructure:"blobs"`

	// Upload contains the upload acceptance policy
	Upload UploadConfig `mapstructure:"upload"`

	// GC contains blob garbage collection settings
	GC GCConfig `mapstructure:"gc"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// StoreConfig specifies entity store configuration.
//
// The Type field determines which store implementation is used.
// Only the corresponding type-specific configuration section is used.
type StoreConfig struct {
	// Type specifies which entity store implementation to use
	// Valid values: badger, memory
	Type string `mapstructure:"type" validate:"required,oneof=badger memory"`

	// Badger contains BadgerDB-specific configuration
	// Only used when Type = "badger"
	Badger map[string]any `mapstructure:"badger"`

	// Memory contains memory-specific configuration
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory"`
}

// BlobConfig specifies where file payloads are stored.
//
// The default, "embedded", keeps payloads inside the entity store so every
// mutation is fully transactional. The other types move payloads to an
// external store, which trades that atomicity for independent scaling of
// payload storage (see the gc section for the cleanup side of that trade).
type BlobConfig struct {
	// Type specifies the payload placement
	// Valid values: embedded, filesystem, s3
	Type string `mapstructure:"type" validate:"required,oneof=embedded filesystem s3"`

	// Filesystem contains filesystem-specific configuration
	// Only used when Type = "filesystem"
	Filesystem map[string]any `mapstructure:"filesystem"`

	// S3 contains S3-specific configuration
	// Only used when Type = "s3"
	S3 map[string]any `mapstructure:"s3"`
}

// UploadConfig is the upload acceptance policy applied before a file reaches
// the store.
type UploadConfig struct {
	// MaxFileSizeBytes caps the size of a single uploaded file
	MaxFileSizeBytes int64 `mapstructure:"max_file_size_bytes" validate:"required,gt=0"`

	// AllowedMIMETypes lists the accepted content types
	AllowedMIMETypes []string `mapstructure:"allowed_mime_types" validate:"required,min=1"`
}

// GCConfig controls the orphaned-blob garbage collector. Only meaningful with
// an external blob store; embedded payloads are deleted transactionally and
// never orphan.
type GCConfig struct {
	// Enabled turns the background collector on
	Enabled bool `mapstructure:"enabled"`

	// Interval is the time between sweeps
	Interval time.Duration `mapstructure:"interval"`

	// DryRun logs orphans without deleting them
	DryRun bool `mapstructure:"dry_run"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (DATAROOM_*)
//  2. Configuration file
//  3. Default values
//
// configPath selects the config file; an empty string uses the default
// location under the user config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the DATAROOM_ prefix and underscores.
	// Example: DATAROOM_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("DATAROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default location: $XDG_CONFIG_HOME/dataroom/config.{yaml,toml}
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists. A missing file is
// fine; defaults cover everything.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "dataroom")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "dataroom")
}

// getDataDir returns the default data directory for persistent state.
//
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func getDataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "dataroom")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "dataroom")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

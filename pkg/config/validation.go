package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// This function uses go-playground/validator for declarative validation via
// struct tags, with additional custom validation for cross-section rules that
// cannot be expressed in tags.
//
// Note: Log level normalization is handled in ApplyDefaults, not here.
// Validation accepts both uppercase and lowercase log levels.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// The memory store keeps payloads in its own maps; pairing it with an
	// external blob store would leave the blobs unmanaged.
	if cfg.Store.Type == "memory" && cfg.Blobs.Type != "embedded" {
		return fmt.Errorf("blobs: type %q requires store.type \"badger\"", cfg.Blobs.Type)
	}

	// Embedded payloads are deleted in the same transaction as their
	// metadata, so there is nothing for the collector to sweep.
	if cfg.GC.Enabled && cfg.Blobs.Type == "embedded" {
		return fmt.Errorf("gc: enabled requires an external blob store (blobs.type is \"embedded\")")
	}

	if cfg.GC.Enabled && cfg.GC.Interval <= 0 {
		return fmt.Errorf("gc: interval must be positive when gc is enabled")
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}

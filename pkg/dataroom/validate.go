package dataroom

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Name length limits, in characters (post-trim).
const (
	MaxDataroomNameLength = 100
	MaxItemNameLength     = 255
)

// invalidNameChars matches characters that are rejected in any name:
// the usual filesystem-reserved set plus ASCII control characters.
var invalidNameChars = regexp.MustCompile("[<>:\"/\\\\|?*\x00-\x1f]")

// ValidateDataroomName checks a raw user-entered dataroom name.
// Whitespace is trimmed before validation.
func ValidateDataroomName(name string) error {
	return validateName(name, "Name", MaxDataroomNameLength)
}

// ValidateFolderName checks a raw user-entered folder name.
func ValidateFolderName(name string) error {
	return validateName(name, "Folder name", MaxItemNameLength)
}

// ValidateFileName checks a raw user-entered file name.
func ValidateFileName(name string) error {
	return validateName(name, "File name", MaxItemNameLength)
}

// validateName applies the shared name rules: required after trimming, capped
// length, and no reserved or control characters. The character rule reports a
// distinct error from the length and required rules.
//
// These checks are advisory presentation-layer guards. The binding invariant
// enforcement (duplicate names) lives in the stores, which revalidate inside
// their own transactions regardless of what the caller already checked.
func validateName(name, label string, maxLen int) error {
	trimmed := strings.TrimSpace(name)

	return validation.Validate(trimmed,
		validation.Required.Error(label+" is required"),
		validation.RuneLength(1, maxLen).
			Error(label+" must be less than "+strconv.Itoa(maxLen)+" characters"),
		validation.By(checkNameChars),
	)
}

func checkNameChars(value interface{}) error {
	s, _ := value.(string)
	if invalidNameChars.MatchString(s) {
		return errors.New("Name contains invalid characters")
	}
	return nil
}

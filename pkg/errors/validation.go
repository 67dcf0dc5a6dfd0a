package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxColumnIDLength bounds column identifiers so they stay usable as map keys,
// cache key parts and table headers.
const maxColumnIDLength = 128

// ValidateColumnID checks that a column identifier is non-empty, printable and
// free of whitespace. Step scripts address columns by ID, so an ID with spaces
// could never be referenced.
func ValidateColumnID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidColumnID, "column id cannot be empty")
	}
	if len(id) > maxColumnIDLength {
		return New(ErrCodeInvalidColumnID, "column id too long (max %d characters)", maxColumnIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidColumnID, "column id %q contains control characters", id)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidColumnID, "column id %q contains whitespace", id)
		}
	}
	return nil
}

// ValidateScenarioPath checks that path names a TOML scenario file.
func ValidateScenarioPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "scenario path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "scenario path contains invalid characters")
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".toml" {
		return New(ErrCodeInvalidPath, "scenario file must have a .toml extension, got %q", ext)
	}
	return nil
}

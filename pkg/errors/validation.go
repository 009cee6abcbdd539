package errors

import (
	"strings"
	"unicode"
)

// maxTitleLength bounds task titles; longer labels cannot be laid out sensibly.
const maxTitleLength = 512

// ValidateTaskID validates an opaque task identifier.
// IDs travel through CSV cells, URLs and cache keys, so control characters,
// separators used by the CSV format and path separators are rejected.
func ValidateTaskID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "task id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "task id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "task id contains invalid control characters")
		}
	}
	if strings.ContainsAny(id, ";/\\") {
		return New(ErrCodeInvalidInput, "task id contains invalid characters: %q", id)
	}
	return nil
}

// ValidateTitle checks that a title can be ordered and displayed.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return New(ErrCodeInvalidInput, "task title cannot be empty")
	}
	if len(title) > maxTitleLength {
		return New(ErrCodeInvalidInput, "task title too long (max %d characters)", maxTitleLength)
	}
	for _, r := range title {
		if r == '\x00' {
			return New(ErrCodeInvalidInput, "task title contains a null byte")
		}
	}
	return nil
}

// ValidatePath validates a snapshot file path supplied over HTTP or config.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

package errors

import (
	"strings"
	"unicode"
)

// maxKeyLength bounds artifact keys so they stay usable as file names,
// Redis keys, and SQLite primary keys alike.
const maxKeyLength = 255

// ValidateKey validates an artifact key before it reaches a store.
// Keys double as relative file paths in the directory store, so the rules
// follow the path rules:
//   - Key cannot be empty
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..) or empty segments (//)
//   - No backslashes (Windows-style paths)
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidKey, "key too long (max %d characters)", maxKeyLength)
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "key contains invalid control characters")
		}
	}

	if strings.HasPrefix(key, "/") {
		return New(ErrCodeInvalidKey, "key must be relative (cannot start with /)")
	}

	for _, pattern := range []string{"..", "//", "\\"} {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidKey, "key contains invalid characters: %q", pattern)
		}
	}

	return nil
}

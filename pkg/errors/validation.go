package errors

import (
	"strings"
	"unicode"
)

// ValidateDependencyName validates a dependency name for safety and correctness.
// It rejects names that could be used for path traversal when the name is
// joined into a registry path.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., /, \)
//   - Maximum length of 256 characters
//
// Crates.io enforces stricter rules; this only guards path construction.
func ValidateDependencyName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "dependency name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "dependency name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "dependency name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "dependency name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

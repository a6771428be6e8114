package errors

import (
	"strings"
	"unicode"
)

// MaxSourceBytes caps diagram source size. Inputs past this are rejected
// before parsing rather than degraded.
const MaxSourceBytes = 1 << 20

// outputFormats lists the renderable output formats.
var outputFormats = map[string]bool{
	"json": true,
	"dot":  true,
	"svg":  true,
	"png":  true,
}

// ValidateFormat validates an output format name.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "output format cannot be empty")
	}
	if !outputFormats[strings.ToLower(format)] {
		return New(ErrCodeInvalidFormat, "unknown output format: %q", format)
	}
	return nil
}

// ValidateSourceSize validates the byte length of diagram source.
func ValidateSourceSize(size int) error {
	if size > MaxSourceBytes {
		return New(ErrCodeInvalidInput, "diagram source too large (%d bytes, max %d)", size, MaxSourceBytes)
	}
	return nil
}

// ValidateDiagramName validates a stored diagram's name for safety and
// correctness. It rejects names that could be used for path traversal or
// injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
func ValidateDiagramName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "diagram name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "diagram name too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "diagram name contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "diagram name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePath validates a user-supplied output path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
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

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

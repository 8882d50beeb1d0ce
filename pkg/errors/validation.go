package errors

import (
	"strings"
	"unicode"
)

// ValidateBundlePath validates a bundle path received from an untrusted
// caller (the HTTP API). Paths are resolved against the server's root, so
// they must stay relative and inside it.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateBundlePath(path string) error {
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateVendorMarker checks the substring used to tell library modules
// from application modules. An empty marker would classify every module as
// a library.
func ValidateVendorMarker(marker string) error {
	if strings.TrimSpace(marker) == "" {
		return New(ErrCodeInvalidConfig, "vendor marker cannot be empty")
	}
	for _, r := range marker {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "vendor marker contains control characters")
		}
	}
	return nil
}

// ValidateURL validates a backend URL for one of the allowed schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes: %s", strings.Join(schemes, ", "))
}

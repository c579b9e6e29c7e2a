package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxQueryLength bounds a search query; the index rejects longer ones anyway.
const maxQueryLength = 512

// ValidateQuery validates a search query before any request is issued.
//
// A query must be non-empty after trimming, free of control characters and
// at most 512 bytes long. The query is otherwise opaque.
func ValidateQuery(q string) error {
	if strings.TrimSpace(q) == "" {
		return New(ErrCodeInvalidInput, "search query cannot be empty")
	}
	if len(q) > maxQueryLength {
		return New(ErrCodeInvalidInput, "search query too long (max %d characters)", maxQueryLength)
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "search query contains invalid control characters")
		}
	}
	return nil
}

// pythonPackageNameRegex matches valid Python package names (PEP 508).
var pythonPackageNameRegex = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])$`)

// ValidatePackageName validates a scraped package name before it is used to
// build a detail page URL. It rejects names that could be used for path
// traversal as well as anything that is not a PEP 508 name.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "package name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "package name too long (max 256 characters)")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "package name contains invalid characters: %q", "..")
	}
	if !pythonPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid Python package name: %q", name)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidConfig, "URL must use http or https scheme: %q", rawURL)
	}

	return nil
}

package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/matzehuels/pipsearch/pkg/httputil"
)

var (
	// ErrNotFound is returned when a page or resource doesn't exist (HTTP 404).
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures (timeouts, connection errors).
	ErrNetwork = errors.New("network error")

	// ErrStatus is returned for any other non-2xx response.
	ErrStatus = errors.New("unexpected status")
)

// NewHTTPClient creates an HTTP client with the standard timeout and a cookie jar.
func NewHTTPClient() *http.Client {
	return httputil.NewClient(httputil.Options{})
}

// NormalizePkgName converts a package name to its canonical form.
// Applies lowercase and replaces underscores and dots with hyphens, following
// PEP 503 normalization rules used by PyPI.
func NormalizePkgName(name string) string {
	return pkgNameReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

var pkgNameReplacer = strings.NewReplacer("_", "-", ".", "-")

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, and git+ prefixes, and removes .git suffixes.
// Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	return strings.TrimSuffix(s, ".git")
}

// URLEncode percent-encodes a string for use in URLs.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }

// PathEscape percent-encodes a string for use as one URL path segment.
func PathEscape(s string) string { return url.PathEscape(s) }

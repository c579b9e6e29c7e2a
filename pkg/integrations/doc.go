// Package integrations provides HTTP clients for the services a search talks to.
//
// # Overview
//
// Each remote service has its own subpackage:
//
//   - [pypi]: the package index HTML search and project pages
//   - [github]: the GitHub REST API for repository statistics
//
// # Shared Infrastructure
//
// The [Client] type provides the HTTP plumbing both use: default headers,
// JSON, text and HTML GET helpers, and status mapping. A 404 is reported as
// [ErrNotFound], any other non-2xx as [ErrStatus], and transport failures as
// [ErrNetwork]. Status errors wrap an [errors.StatusError] so callers can
// report the exact status code.
//
// Nothing here caches or retries.
//
// [pypi]: github.com/matzehuels/pipsearch/pkg/integrations/pypi
// [github]: github.com/matzehuels/pipsearch/pkg/integrations/github
// [errors.StatusError]: github.com/matzehuels/pipsearch/pkg/errors.StatusError
package integrations

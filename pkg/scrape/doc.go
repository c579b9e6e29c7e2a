// Package scrape extracts structured data from package index HTML.
//
// The index's CSS class names are namespaced and drift between deployments
// (package-snippet__name, package-snippet--name-v2, ...), so every lookup in
// this package matches a stable substring of the class attribute instead of
// an exact class. [Lookup] is that tolerant lookup; every call site uses it.
//
// # Search pages
//
// [Snippets] yields one [Snippet] per result element. An element missing a
// required field yields a [*FieldError] in its place; the other elements of
// the page are unaffected.
//
// # Detail pages
//
// [ProjectLinks] reads the "Project links" sidebar of a package detail page
// and [Homepage] picks the entry that names the project's homepage.
package scrape

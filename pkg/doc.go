// Package pkg provides the core libraries for pipsearch.
//
// # Overview
//
// pipsearch scrapes the Python Package Index search page, optionally enriches
// each result with repository statistics, and returns the records in search
// order. The pkg directory is organized into these areas:
//
//  1. [scrape] - Extraction of search results and project links from HTML
//  2. [challenge] - The index's proof-of-work gate (solver and client)
//  3. [integrations] - HTTP clients for the index ([integrations/pypi]) and
//     the repository host ([integrations/github])
//  4. [search] - Configuration, record building, sorting and the ordered
//     enrichment pipeline
//  5. [httputil], [errors], [observability], [buildinfo] - Shared plumbing
//
// # Architecture
//
// The data flow of one query:
//
//	search page (N pages)
//	         ↓
//	    [integrations/pypi] (fetch, pass challenge, paginate)
//	         ↓
//	    [scrape] (snippets)
//	         ↓
//	    [search] (build records)
//	         ↓ optional
//	    [integrations/pypi] detail page → [integrations/github] stats
//	         ↓
//	    ordered records
//
// # Quick Start
//
//	s, err := search.NewSearcher(search.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	for pkg, err := range s.Search(ctx, "http client", search.Options{Extra: true}) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(pkg.Name, pkg.Version, pkg.Stars)
//	}
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -tags integration ./pkg/...  # Include live API tests
//
// [scrape]: https://pkg.go.dev/github.com/matzehuels/pipsearch/pkg/scrape
// [challenge]: https://pkg.go.dev/github.com/matzehuels/pipsearch/pkg/challenge
// [integrations]: https://pkg.go.dev/github.com/matzehuels/pipsearch/pkg/integrations
// [integrations/pypi]: https://pkg.go.dev/github.com/matzehuels/pipsearch/pkg/integrations/pypi
// [integrations/github]: https://pkg.go.dev/github.com/matzehuels/pipsearch/pkg/integrations/github
// [search]: https://pkg.go.dev/github.com/matzehuels/pipsearch/pkg/search
// [httputil]: https://pkg.go.dev/github.com/matzehuels/pipsearch/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/pipsearch/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/pipsearch/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pipsearch/pkg/buildinfo
package pkg

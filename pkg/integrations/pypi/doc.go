// Package pypi scrapes the Python Package Index's HTML pages.
//
// # Overview
//
// The JSON API has no search endpoint, so search results come from the
// HTML search page (https://pypi.org/search/?q=...&page=N). This package
// fetches a fixed number of those pages and hands each page to
// [scrape.Snippets] for extraction.
//
// # Usage
//
//	client := pypi.NewClient(httpClient, pypi.Options{}, logger)
//
//	for snip, err := range client.Pages(ctx, "requests") {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(snip.Name, snip.Version)
//	}
//
//	loc, ok, err := client.RepositoryLink(ctx, "requests")
//
// # Proof of Work
//
// Some deployments answer the first request with a challenge page instead of
// results. When that happens the client passes the gate with
// [challenge.Gate] and requests the page again; the cookie jar carries the
// clearance for the rest of the run.
//
// [scrape.Snippets]: github.com/matzehuels/pipsearch/pkg/scrape.Snippets
// [challenge.Gate]: github.com/matzehuels/pipsearch/pkg/challenge.Gate
package pypi

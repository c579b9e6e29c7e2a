// Package search turns a query into package records.
//
// It is the acquisition and enrichment pipeline behind the CLI:
//
//  1. Paginate: fetch a fixed number of index search pages ([pypi.Client.Pages]),
//     passing the proof-of-work gate when the index asks for it.
//  2. Build: convert every scraped snippet into a [Package] ([Build]).
//  3. Enrich (opt-in): resolve each package's repository from its detail page
//     and merge star, fork and watcher counts from the GitHub API.
//
// # Usage
//
//	s, err := search.NewSearcher(search.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	for pkg, err := range s.Search(ctx, "requests", search.Options{Extra: true}) {
//	    if err != nil {
//	        return err // fatal: challenge, page fetch, detail page, or timestamp
//	    }
//	    fmt.Println(pkg.Name, pkg.Stars)
//	}
//
// # Ordering and Concurrency
//
// Records are yielded in page order, then in document order within a page.
// Enrichment runs on at most [Config.Workers] goroutines, but records are
// still yielded in that order. Breaking out of the loop cancels in-flight
// requests and waits for every worker to return.
//
// # Failures
//
// A failed search or detail page fetch, an unpassable challenge or an
// unparseable release timestamp ends the sequence with an error that names
// the failing stage (see [errors.GetStage]). Missing result fields, packages
// without a repository homepage and unavailable repository statistics are
// not errors: the record is skipped or yielded unenriched.
//
// Sorting happens after collection; see [Sort].
//
// [pypi.Client.Pages]: github.com/matzehuels/pipsearch/pkg/integrations/pypi.Client.Pages
// [errors.GetStage]: github.com/matzehuels/pipsearch/pkg/errors.GetStage
package search

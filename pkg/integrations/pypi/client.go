package pypi

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pipsearch/pkg/challenge"
	perrors "github.com/matzehuels/pipsearch/pkg/errors"
	"github.com/matzehuels/pipsearch/pkg/integrations"
	"github.com/matzehuels/pipsearch/pkg/integrations/github"
	"github.com/matzehuels/pipsearch/pkg/observability"
	"github.com/matzehuels/pipsearch/pkg/scrape"
)

// Defaults for the public index.
const (
	DefaultSearchURL = "https://pypi.org/search/"
	DefaultIndexURL  = "https://pypi.org"
	DefaultPageCount = 2
)

// Options configures a Client. Zero fields take the defaults above.
type Options struct {
	SearchURL string // HTML search endpoint
	IndexURL  string // root for /project/<name>/ detail pages
	PageCount int    // number of result pages fetched per query
}

// Client scrapes the package index's HTML search and project pages.
//
// All requests share one HTTP client so the clearance cookie obtained by
// passing a proof-of-work challenge is sent with every later request.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	searchURL string
	indexURL  string
	pages     int
	gate      *challenge.Gate
	logger    *log.Logger
}

// NewClient creates an index client on top of httpClient, which must have a
// cookie jar for challenge clearance to stick.
func NewClient(httpClient *http.Client, opts Options, logger *log.Logger) *Client {
	if opts.SearchURL == "" {
		opts.SearchURL = DefaultSearchURL
	}
	if opts.IndexURL == "" {
		opts.IndexURL = DefaultIndexURL
	}
	if opts.PageCount <= 0 {
		opts.PageCount = DefaultPageCount
	}
	if logger == nil {
		logger = log.Default()
	}

	base := integrations.NewClient(httpClient, map[string]string{"Accept": "text/html"})
	return &Client{
		Client:    base,
		searchURL: opts.SearchURL,
		indexURL:  strings.TrimSuffix(opts.IndexURL, "/"),
		pages:     opts.PageCount,
		gate:      challenge.NewGate(base.HTTP(), logger),
		logger:    logger,
	}
}

// SearchURL returns the search page URL for query without a page number.
func (c *Client) SearchURL(query string) string {
	sep := "?"
	if strings.Contains(c.searchURL, "?") {
		sep = "&"
	}
	return c.searchURL + sep + "q=" + integrations.URLEncode(query)
}

// PageURL returns the URL of result page n (1-based) for query.
func (c *Client) PageURL(query string, n int) string {
	return fmt.Sprintf("%s&page=%d", c.SearchURL(query), n)
}

// Pages fetches the configured number of result pages for query, one after
// another, and yields their snippets in page order then document order.
//
// Every page is requested regardless of how many results earlier pages held.
// Result elements missing a required field are logged and skipped. A failed
// page fetch or an unpassable challenge is yielded as the final element.
// The sequence is single-use.
func (c *Client) Pages(ctx context.Context, query string) iter.Seq2[scrape.Snippet, error] {
	return func(yield func(scrape.Snippet, error) bool) {
		for n := 1; n <= c.pages; n++ {
			start := time.Now()
			body, err := c.fetchPage(ctx, query, n)
			if err != nil {
				yield(scrape.Snippet{}, err)
				return
			}

			doc, err := scrape.Parse(strings.NewReader(body))
			if err != nil {
				yield(scrape.Snippet{}, perrors.AtStage(perrors.StageSearchPage, perrors.ErrCodeExtraction, err, "parse page %d", n))
				return
			}

			found := 0
			for snip, err := range scrape.Snippets(doc) {
				if err != nil {
					c.logger.Debug("skipping search result", "page", n, "error", err)
					observability.Search().OnSnippetSkipped(ctx, query, n, err)
					continue
				}
				found++
				if !yield(snip, nil) {
					return
				}
			}
			c.logger.Debug("search page scraped", "page", n, "results", found)
			observability.Search().OnPageFetched(ctx, query, n, found, time.Since(start))
		}
	}
}

// fetchPage returns the body of result page n, passing the proof-of-work
// gate first when the index answers with a challenge page.
func (c *Client) fetchPage(ctx context.Context, query string, n int) (string, error) {
	pageURL := c.PageURL(query, n)
	body, err := c.GetText(ctx, pageURL)
	if err != nil {
		return "", perrors.AtStage(perrors.StageSearchPage, perrors.ErrCodeTransport, err, "page %d", n)
	}
	if _, gated := challenge.Detect(body); !gated {
		return body, nil
	}

	c.logger.Debug("index requested proof of work", "page", n)
	if err := c.gate.Pass(ctx, origin(c.searchURL), body); err != nil {
		return "", err
	}

	body, err = c.GetText(ctx, pageURL)
	if err != nil {
		return "", perrors.AtStage(perrors.StageSearchPage, perrors.ErrCodeTransport, err, "page %d", n)
	}
	if _, gated := challenge.Detect(body); gated {
		return "", perrors.AtStage(perrors.StageChallenge, perrors.ErrCodeChallenge, challenge.ErrUnsolvable, "index kept the challenge after a solved answer")
	}
	return body, nil
}

// ProjectURL returns the detail page URL for a package.
func (c *Client) ProjectURL(name string) string {
	return fmt.Sprintf("%s/project/%s/", c.indexURL, integrations.PathEscape(name))
}

// RepositoryLink resolves the source repository of a package from the
// "Project links" sidebar of its detail page.
//
// ok is false when name is not a valid package name, the page has no project
// links or the homepage is not on the repository host. Only a failed page
// fetch is an error.
func (c *Client) RepositoryLink(ctx context.Context, name string) (loc github.Locator, ok bool, err error) {
	if err := perrors.ValidatePackageName(name); err != nil {
		c.logger.Debug("skipping project page", "package", name, "error", err)
		return github.Locator{}, false, nil
	}
	doc, err := c.GetDocument(ctx, c.ProjectURL(name))
	if err != nil {
		return github.Locator{}, false, perrors.AtStage(perrors.StageDetailPage, perrors.ErrCodeTransport, err, "project %s", name)
	}

	homepage, ok := scrape.Homepage(scrape.ProjectLinks(doc))
	if !ok {
		c.logger.Debug("no project links", "package", name)
		return github.Locator{}, false, nil
	}
	loc, ok = github.ParseLocator(homepage)
	if !ok {
		c.logger.Debug("homepage is not a repository", "package", name, "homepage", homepage)
	}
	return loc, ok, nil
}

func origin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Scheme + "://" + u.Host
}

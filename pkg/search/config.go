package search

import (
	"fmt"
	"strings"
	"time"

	perrors "github.com/matzehuels/pipsearch/pkg/errors"
	"github.com/matzehuels/pipsearch/pkg/httputil"
	"github.com/matzehuels/pipsearch/pkg/integrations/github"
	"github.com/matzehuels/pipsearch/pkg/integrations/pypi"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSearchURL is the index's HTML search endpoint.
	DefaultSearchURL = pypi.DefaultSearchURL

	// DefaultIndexURL is the root of the index's project pages.
	DefaultIndexURL = pypi.DefaultIndexURL

	// DefaultAPIURL is the repository host's REST API root.
	DefaultAPIURL = github.DefaultAPIURL

	// DefaultPageCount is the number of result pages fetched per query.
	DefaultPageCount = pypi.DefaultPageCount

	// DefaultLinkTemplate builds a package link when a result has no href.
	// {base} expands to IndexURL and {name} to the package name.
	DefaultLinkTemplate = "{base}/project/{name}/"

	// DefaultDateFormat is the strftime pattern for release dates.
	DefaultDateFormat = "%d-%m-%Y"

	// DefaultWorkers bounds concurrent enrichment.
	DefaultWorkers = 4

	// DefaultRateLimit is the repository API request rate (requests/second).
	DefaultRateLimit = 10.0

	// MaxWorkers caps Workers.
	MaxWorkers = 32
)

// =============================================================================
// Config
// =============================================================================

// Config holds the endpoints and limits of a Searcher. It is copied into the
// Searcher at construction and never changes afterwards.
type Config struct {
	SearchURL    string        `toml:"search_url"`
	IndexURL     string        `toml:"index_url"`
	APIURL       string        `toml:"api_url"`
	PageCount    int           `toml:"page_count"`
	LinkTemplate string        `toml:"link_template"`
	DateFormat   string        `toml:"date_format"`
	Workers      int           `toml:"workers"`
	RateLimit    float64       `toml:"rate_limit"` // 0 disables limiting
	Timeout      time.Duration `toml:"timeout"`
}

// DefaultConfig returns the configuration for the public index and GitHub.
func DefaultConfig() Config {
	return Config{
		SearchURL:    DefaultSearchURL,
		IndexURL:     DefaultIndexURL,
		APIURL:       DefaultAPIURL,
		PageCount:    DefaultPageCount,
		LinkTemplate: DefaultLinkTemplate,
		DateFormat:   DefaultDateFormat,
		Workers:      DefaultWorkers,
		RateLimit:    DefaultRateLimit,
		Timeout:      httputil.DefaultTimeout,
	}
}

// SetDefaults fills zero-valued fields from DefaultConfig. RateLimit is left
// alone because zero means unlimited.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.SearchURL == "" {
		c.SearchURL = d.SearchURL
	}
	if c.IndexURL == "" {
		c.IndexURL = d.IndexURL
	}
	if c.APIURL == "" {
		c.APIURL = d.APIURL
	}
	if c.PageCount == 0 {
		c.PageCount = d.PageCount
	}
	if c.LinkTemplate == "" {
		c.LinkTemplate = d.LinkTemplate
	}
	if c.DateFormat == "" {
		c.DateFormat = d.DateFormat
	}
	if c.Workers == 0 {
		c.Workers = d.Workers
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
}

// Validate checks that every field is usable.
func (c Config) Validate() error {
	for _, u := range []struct{ name, value string }{
		{"search_url", c.SearchURL},
		{"index_url", c.IndexURL},
		{"api_url", c.APIURL},
	} {
		if err := perrors.ValidateURL(u.value); err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "%s", u.name)
		}
	}
	if c.PageCount < 1 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "page_count must be at least 1, got %d", c.PageCount)
	}
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return perrors.New(perrors.ErrCodeInvalidConfig, "workers must be between 1 and %d, got %d", MaxWorkers, c.Workers)
	}
	if c.RateLimit < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "rate_limit must not be negative")
	}
	if c.Timeout <= 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "timeout must be positive")
	}
	if !strings.Contains(c.LinkTemplate, "{name}") {
		return perrors.New(perrors.ErrCodeInvalidConfig, "link_template %q must contain {name}", c.LinkTemplate)
	}
	if c.DateFormat == "" {
		return perrors.New(perrors.ErrCodeInvalidConfig, "date_format is required")
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("search=%s pages=%d workers=%d", c.SearchURL, c.PageCount, c.Workers)
}

package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/pipsearch/pkg/errors"
	"github.com/matzehuels/pipsearch/pkg/integrations"
)

// DefaultAPIURL is the GitHub REST API root.
const DefaultAPIURL = "https://api.github.com"

// Outcome classifies the result of a stats request.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeUnauthorized Outcome = "unauthorized"
	OutcomeRateLimited  Outcome = "rate_limited"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeUnexpected   Outcome = "unexpected"
	OutcomeTransport    Outcome = "transport"
)

// Code maps the outcome onto an error code. OutcomeOK has none.
func (o Outcome) Code() perrors.Code {
	switch o {
	case OutcomeOK:
		return ""
	case OutcomeUnauthorized:
		return perrors.ErrCodeUnauthorized
	case OutcomeRateLimited:
		return perrors.ErrCodeRateLimited
	case OutcomeNotFound:
		return perrors.ErrCodeNotFound
	default:
		return perrors.ErrCodeTransport
	}
}

// Stats holds the repository counters used to enrich a search result.
// Complete is true only when the counters came from a successful response;
// otherwise all counters are zero.
type Stats struct {
	Stars          int
	Forks          int
	Watchers       int
	RepositoryLink string
	Complete       bool
	Outcome        Outcome
}

// Err returns nil for complete stats and otherwise an error carrying the
// outcome's code.
func (s Stats) Err() error {
	if s.Complete {
		return nil
	}
	outcome := s.Outcome
	if outcome == "" {
		outcome = OutcomeUnexpected
	}
	return perrors.New(outcome.Code(), "repository stats unavailable: %s", outcome)
}

// Credentials authenticate API requests with HTTP Basic auth.
// The zero value sends unauthenticated requests (lower rate limits).
type Credentials struct {
	Username string
	Token    string
}

// Empty reports whether no token is set.
func (c Credentials) Empty() bool {
	return c.Token == ""
}

// Client fetches repository statistics from the GitHub API.
// It is safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
	logger  *log.Logger

	warnAuth  sync.Once
	warnLimit sync.Once
}

// NewClient creates a GitHub API client on top of httpClient, which should
// carry any request rate limiting. An empty baseURL uses [DefaultAPIURL].
func NewClient(httpClient *http.Client, baseURL string, creds Credentials, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if logger == nil {
		logger = log.Default()
	}

	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if !creds.Empty() {
		auth := base64.StdEncoding.EncodeToString([]byte(creds.Username + ":" + creds.Token))
		headers["Authorization"] = "Basic " + auth
	}

	return &Client{
		Client:  integrations.NewClient(httpClient, headers).RequireOK(),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// Stats fetches star, fork and watcher counts for the repository at loc.
//
// Stats never fails: any transport error or non-200 response produces an
// empty Stats whose Outcome says what went wrong. Counters missing from the
// response, or of the wrong JSON type, are reported as zero. Nothing is retried.
func (c *Client) Stats(ctx context.Context, loc Locator) Stats {
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, integrations.PathEscape(loc.Owner), integrations.PathEscape(loc.Repo))

	var data map[string]any
	if err := c.Get(ctx, url, &data); err != nil {
		outcome := classify(err)
		c.report(loc, outcome, err)
		return Stats{Outcome: outcome}
	}

	return Stats{
		Stars:          count(data, "stargazers_count"),
		Forks:          count(data, "forks_count"),
		Watchers:       count(data, "watchers_count"),
		RepositoryLink: loc.URL(),
		Complete:       true,
		Outcome:        OutcomeOK,
	}
}

func (c *Client) report(loc Locator, outcome Outcome, err error) {
	switch outcome {
	case OutcomeUnauthorized:
		c.warnAuth.Do(func() {
			c.logger.Warn("github rejected credentials, repository stats unavailable")
		})
	case OutcomeRateLimited:
		c.warnLimit.Do(func() {
			c.logger.Warn("github rate limit reached, repository stats unavailable")
		})
	}
	c.logger.Debug("repository stats unavailable", "repo", loc, "outcome", outcome, "code", outcome.Code(), "error", err)
}

func classify(err error) Outcome {
	var se *perrors.StatusError
	switch {
	case errors.As(err, &se):
		switch se.StatusCode {
		case http.StatusUnauthorized:
			return OutcomeUnauthorized
		case http.StatusForbidden, http.StatusTooManyRequests:
			return OutcomeRateLimited
		case http.StatusNotFound:
			return OutcomeNotFound
		}
		return OutcomeUnexpected
	case errors.Is(err, integrations.ErrNetwork):
		return OutcomeTransport
	default:
		return OutcomeUnexpected
	}
}

// count reads a non-negative integer counter; anything else is zero.
func count(data map[string]any, key string) int {
	v, ok := data[key].(float64)
	if !ok || v < 0 || v != float64(int(v)) {
		return 0
	}
	return int(v)
}

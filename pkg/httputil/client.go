package httputil

import (
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds every request made through clients from [NewClient].
const DefaultTimeout = 15 * time.Second

// Options configures [NewClient].
type Options struct {
	Timeout time.Duration     // per-request timeout; 0 means DefaultTimeout
	Limiter *rate.Limiter     // optional request limiter
	Base    http.RoundTripper // optional base transport (tests)
}

// NewClient creates the HTTP client used for one search run.
// The client keeps cookies across requests and never follows more than
// the standard library's default redirect limit.
func NewClient(opts Options) *http.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	// cookiejar.New only fails for a non-nil PublicSuffixList.
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Timeout:   timeout,
		Jar:       jar,
		Transport: &Transport{Base: opts.Base, Limiter: opts.Limiter},
	}
}

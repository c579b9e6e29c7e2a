package httputil

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/matzehuels/pipsearch/pkg/buildinfo"
	"github.com/matzehuels/pipsearch/pkg/observability"
)

// UserAgent is sent with every request unless the caller sets its own.
var UserAgent = "pipsearch/" + buildinfo.Version

// Transport wraps a base RoundTripper with rate limiting and hook reporting.
// A nil Limiter disables rate limiting; a nil Base uses http.DefaultTransport.
type Transport struct {
	Base    http.RoundTripper
	Limiter *rate.Limiter
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path

	if t.Limiter != nil {
		if err := t.Limiter.Wait(ctx); err != nil {
			hooks.OnError(ctx, req.Method, host, path, err)
			return nil, err
		}
	}

	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(ctx)
		req.Header.Set("User-Agent", UserAgent)
	}

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := t.base().RoundTrip(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// NewLimiter returns a limiter allowing rps requests per second with the
// given burst. A non-positive rps means unlimited and returns nil.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

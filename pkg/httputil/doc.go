// Package httputil provides the HTTP plumbing shared by the index and
// repository-host clients.
//
// # Overview
//
//   - [NewClient]: an *http.Client with a fixed timeout and a cookie jar, so
//     that a proof-of-work clearance cookie set during one request is sent on
//     every following request of the same search.
//   - [Transport]: a RoundTripper that sets the User-Agent, optionally waits
//     on a [rate.Limiter] before each request and reports every request to the
//     registered [observability.HTTPHooks].
//
// One client is built per search run and shared by all workers; it is
// configured once and never mutated afterwards.
//
// # Retries
//
// Nothing in this package retries. A transport error or timeout is returned
// to the caller as-is.
//
// [rate.Limiter]: https://pkg.go.dev/golang.org/x/time/rate#Limiter
// [observability.HTTPHooks]: github.com/matzehuels/pipsearch/pkg/observability.HTTPHooks
package httputil

// Package github fetches repository statistics from the GitHub REST API.
//
// # Usage
//
//	loc, ok := github.ParseLocator("https://github.com/psf/requests/issues")
//	if !ok {
//	    return // not a GitHub homepage
//	}
//
//	client := github.NewClient(httpClient, "", github.Credentials{
//	    Username: os.Getenv("GITHUB_USERNAME"),
//	    Token:    os.Getenv("GITHUB_TOKEN"),
//	}, logger)
//
//	stats := client.Stats(ctx, loc)
//	if stats.Complete {
//	    fmt.Println("Stars:", stats.Stars)
//	}
//
// # Authentication
//
// Credentials are optional. Without a token the API allows 60 requests per
// hour; with one it allows 5000. They are sent with HTTP Basic auth.
//
// # Failure Handling
//
// [Client.Stats] never returns an error. A 401, 403, 404, any other
// non-200 status, or a transport failure yields zero counters with
// Complete=false and an [Outcome] describing the cause.
package github

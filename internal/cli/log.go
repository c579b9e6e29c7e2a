// Package cli implements the pipsearch command-line interface.
//
// The root command searches the Python Package Index and renders the results
// as a table, plain text, markdown or CSV. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
//   - pipsearch <query>: search and print results
//   - config: show the config file path and effective configuration
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every outgoing HTTP request. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pipsearch/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Found 40 packages (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Debug Hooks
// =============================================================================

// DebugHooks logs HTTP traffic and search events at debug level.
// Register it with observability.SetHTTPHooks and SetSearchHooks.
type DebugHooks struct {
	Logger *log.Logger
}

var (
	_ observability.HTTPHooks   = DebugHooks{}
	_ observability.SearchHooks = DebugHooks{}
)

func (h DebugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h DebugHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "host", host, "path", path,
		"status", status, "took", d.Round(time.Millisecond))
}

func (h DebugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}

func (h DebugHooks) OnPageFetched(_ context.Context, query string, page, snippets int, d time.Duration) {
	h.Logger.Debug("page fetched", "query", query, "page", page, "results", snippets,
		"took", d.Round(time.Millisecond))
}

func (h DebugHooks) OnSnippetSkipped(_ context.Context, query string, page int, err error) {
	h.Logger.Debug("result skipped", "query", query, "page", page, "err", err)
}

func (h DebugHooks) OnChallengePassed(_ context.Context, attempts int, d time.Duration) {
	h.Logger.Debug("challenge passed", "attempts", attempts, "took", d.Round(time.Millisecond))
}

func (h DebugHooks) OnEnriched(_ context.Context, pkg, outcome string, d time.Duration) {
	h.Logger.Debug("enriched", "package", pkg, "outcome", outcome, "took", d.Round(time.Millisecond))
}

package search

import (
	"context"
	"iter"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	perrors "github.com/matzehuels/pipsearch/pkg/errors"
	"github.com/matzehuels/pipsearch/pkg/httputil"
	"github.com/matzehuels/pipsearch/pkg/integrations/github"
	"github.com/matzehuels/pipsearch/pkg/integrations/pypi"
	"github.com/matzehuels/pipsearch/pkg/observability"
)

// Enrichment outcomes reported to [observability.SearchHooks.OnEnriched]
// in addition to the [github.Outcome] values.
const (
	outcomeNoRepository = "no_repository"
	outcomeDetailFailed = "detail_failed"
)

// Options controls one search.
type Options struct {
	// Extra enables repository enrichment.
	Extra bool

	// Credentials authenticate repository API requests. Optional.
	Credentials github.Credentials
}

// Searcher runs queries against one index and repository host.
// A Searcher is safe for concurrent use; each Search call is independent.
type Searcher struct {
	cfg     Config
	index   *pypi.Client
	apiHTTP *http.Client
	logger  *log.Logger
}

// NewSearcher validates cfg and creates a Searcher. Zero-valued fields of cfg
// take their defaults, except RateLimit: zero disables API rate limiting, so
// start from [DefaultConfig] to keep the default rate. A nil logger uses
// log.Default().
func NewSearcher(cfg Config, logger *log.Logger) (*Searcher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	indexHTTP := httputil.NewClient(httputil.Options{Timeout: cfg.Timeout})
	apiHTTP := httputil.NewClient(httputil.Options{
		Timeout: cfg.Timeout,
		Limiter: httputil.NewLimiter(cfg.RateLimit, cfg.Workers),
	})

	logger.Debug("searcher configured", "config", cfg)
	return &Searcher{
		cfg: cfg,
		index: pypi.NewClient(indexHTTP, pypi.Options{
			SearchURL: cfg.SearchURL,
			IndexURL:  cfg.IndexURL,
			PageCount: cfg.PageCount,
		}, logger),
		apiHTTP: apiHTTP,
		logger:  logger,
	}, nil
}

// Config returns the Searcher's configuration.
func (s *Searcher) Config() Config {
	return s.cfg
}

// SearchURL returns the index search URL for query, as shown to users.
func (s *Searcher) SearchURL(query string) string {
	return s.index.SearchURL(query)
}

// Search returns the results for query as a single-use sequence.
//
// Without opts.Extra every record is yielded as soon as it is built. With
// it, each record first has its repository resolved and its statistics
// merged. The sequence ends early with a non-nil error on the first fatal
// failure; the error is always the last element.
func (s *Searcher) Search(ctx context.Context, query string, opts Options) iter.Seq2[*Package, error] {
	return func(yield func(*Package, error) bool) {
		if err := perrors.ValidateQuery(query); err != nil {
			yield(nil, err)
			return
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		records := s.records(ctx, query)
		if opts.Extra {
			repos := github.NewClient(s.apiHTTP, s.cfg.APIURL, opts.Credentials, s.logger)
			records = s.enrich(ctx, records, repos)
		}
		for pkg, err := range records {
			if !yield(pkg, err) || err != nil {
				return
			}
		}
	}
}

// Collect runs Search to completion and returns every record. On a fatal
// error the records built before it are returned along with the error.
func (s *Searcher) Collect(ctx context.Context, query string, opts Options) ([]*Package, error) {
	var pkgs []*Package
	for pkg, err := range s.Search(ctx, query, opts) {
		if err != nil {
			return pkgs, err
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}

// records builds a Package for every snippet of every page.
func (s *Searcher) records(ctx context.Context, query string) iter.Seq2[*Package, error] {
	return func(yield func(*Package, error) bool) {
		for snip, err := range s.index.Pages(ctx, query) {
			if err != nil {
				yield(nil, err)
				return
			}
			pkg, err := Build(snip, s.cfg)
			if !yield(pkg, err) || err != nil {
				return
			}
		}
	}
}

// slot carries one record through the enrichment pool. done is closed once
// pkg and err are final.
type slot struct {
	pkg  *Package
	err  error
	done chan struct{}
}

// enrich enriches records on at most cfg.Workers goroutines and yields them
// in input order.
//
// A producer goroutine pulls records, queues a slot per record, and starts a
// worker for it. The consumer waits on slots in queue order. The queue
// holds at most Workers slots, so the producer never runs far ahead of the
// consumer. When the consumer stops, ctx is cancelled and the queue drained
// until the producer has joined every worker.
func (s *Searcher) enrich(ctx context.Context, records iter.Seq2[*Package, error], repos *github.Client) iter.Seq2[*Package, error] {
	return func(yield func(*Package, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		slots := make(chan *slot, s.cfg.Workers)

		go func() {
			defer close(slots)
			var g errgroup.Group
			g.SetLimit(s.cfg.Workers)
			defer g.Wait()

			for pkg, err := range records {
				sl := &slot{pkg: pkg, err: err, done: make(chan struct{})}
				select {
				case slots <- sl:
				case <-ctx.Done():
					return
				}
				if err != nil {
					close(sl.done)
					return
				}
				g.Go(func() error {
					defer close(sl.done)
					sl.err = s.enrichOne(ctx, sl.pkg, repos)
					return nil
				})
			}
		}()

		defer func() {
			cancel()
			for range slots {
			}
		}()

		for sl := range slots {
			<-sl.done
			if sl.err != nil {
				yield(nil, sl.err)
				return
			}
			if !yield(sl.pkg, nil) {
				return
			}
		}
	}
}

// enrichOne resolves the repository of pkg and merges its statistics.
// Only a failed detail page fetch is returned as an error.
func (s *Searcher) enrichOne(ctx context.Context, pkg *Package, repos *github.Client) error {
	start := time.Now()
	hooks := observability.Search()

	loc, ok, err := s.index.RepositoryLink(ctx, pkg.Name)
	if err != nil {
		hooks.OnEnriched(ctx, pkg.Name, outcomeDetailFailed, time.Since(start))
		return err
	}
	if !ok {
		hooks.OnEnriched(ctx, pkg.Name, outcomeNoRepository, time.Since(start))
		return nil
	}

	stats := repos.Stats(ctx, loc)
	pkg.merge(stats)
	if err := stats.Err(); err != nil {
		s.logger.Debug("not enriched", "package", pkg.Name, "repo", loc, "code", perrors.GetCode(err))
	} else {
		s.logger.Debug("enriched", "package", pkg.Name, "repo", loc, "stars", stats.Stars)
	}
	hooks.OnEnriched(ctx, pkg.Name, string(stats.Outcome), time.Since(start))
	return nil
}

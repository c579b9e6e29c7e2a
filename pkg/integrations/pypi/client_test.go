package pypi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pipsearch/pkg/challenge"
	perrors "github.com/matzehuels/pipsearch/pkg/errors"
	"github.com/matzehuels/pipsearch/pkg/httputil"
	"github.com/matzehuels/pipsearch/pkg/scrape"
)

func snippetHTML(name, version string) string {
	return fmt.Sprintf(`<a class="package-snippet" href="/project/%[1]s/">
  <span class="package-snippet__name">%[1]s</span>
  <span class="package-snippet__version">%[2]s</span>
  <span class="package-snippet__released"><time datetime="2023-05-22T00:00:00+0000">May 22, 2023</time></span>
  <p class="package-snippet__description">about %[1]s</p>
</a>`, name, version)
}

const brokenSnippet = `<a class="package-snippet" href="/project/broken/">
  <span class="package-snippet__version">1.0</span>
  <span class="package-snippet__released"><time datetime="2023-05-22T00:00:00+0000"></time></span>
</a>`

func page(snippets ...string) string {
	return "<html><body><ul>" + strings.Join(snippets, "\n") + "</ul></body></html>"
}

type indexServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []string
}

func (s *indexServer) pagesRequested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func newIndexServer(t *testing.T, pages map[string]string) *indexServer {
	t.Helper()
	s := &indexServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/" {
			http.NotFound(w, r)
			return
		}
		n := r.URL.Query().Get("page")
		s.mu.Lock()
		s.requests = append(s.requests, n)
		s.mu.Unlock()
		body, ok := pages[n]
		if !ok {
			body = page()
		}
		io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

func testClient(serverURL string, pageCount int) *Client {
	return NewClient(httputil.NewClient(httputil.Options{}), Options{
		SearchURL: serverURL + "/search/",
		IndexURL:  serverURL,
		PageCount: pageCount,
	}, log.New(io.Discard))
}

func collect(t *testing.T, c *Client, query string) ([]scrape.Snippet, error) {
	t.Helper()
	var out []scrape.Snippet
	for snip, err := range c.Pages(context.Background(), query) {
		if err != nil {
			return out, err
		}
		out = append(out, snip)
	}
	return out, nil
}

func TestPagesFetchesEveryPage(t *testing.T) {
	tests := []struct {
		name      string
		pageCount int
		pages     map[string]string
		want      []string
	}{
		{
			name:      "results on both pages",
			pageCount: 2,
			pages: map[string]string{
				"1": page(snippetHTML("requests", "2.31.0"), snippetHTML("requests-oauthlib", "1.3.1")),
				"2": page(snippetHTML("requests-mock", "1.11.0")),
			},
			want: []string{"requests", "requests-oauthlib", "requests-mock"},
		},
		{
			name:      "empty first page",
			pageCount: 2,
			pages:     map[string]string{"2": page(snippetHTML("late", "0.1"))},
			want:      []string{"late"},
		},
		{
			name:      "no results",
			pageCount: 3,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newIndexServer(t, tt.pages)
			snips, err := collect(t, testClient(srv.URL, tt.pageCount), "requests")
			if err != nil {
				t.Fatalf("Pages() error: %v", err)
			}

			var names []string
			for _, s := range snips {
				names = append(names, s.Name)
			}
			if strings.Join(names, ",") != strings.Join(tt.want, ",") {
				t.Errorf("names = %v, want %v", names, tt.want)
			}

			got := srv.pagesRequested()
			if len(got) != tt.pageCount {
				t.Fatalf("requests = %v, want %d", got, tt.pageCount)
			}
			for i, p := range got {
				if p != fmt.Sprint(i+1) {
					t.Errorf("request %d page = %q, want %d", i, p, i+1)
				}
			}
		})
	}
}

func TestPagesSkipsIncompleteResults(t *testing.T) {
	srv := newIndexServer(t, map[string]string{
		"1": page(snippetHTML("a", "1"), brokenSnippet, snippetHTML("b", "2")),
	})
	snips, err := collect(t, testClient(srv.URL, 1), "x")
	if err != nil {
		t.Fatalf("Pages() error: %v", err)
	}
	if len(snips) != 2 || snips[0].Name != "a" || snips[1].Name != "b" {
		t.Errorf("snippets = %+v, want a and b", snips)
	}
	if snips[0].Href != "/project/a/" || snips[0].Description != "about a" {
		t.Errorf("snippet a = %+v", snips[0])
	}
}

func TestPagesQueryEncoding(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		io.WriteString(w, page())
	}))
	defer srv.Close()

	if _, err := collect(t, testClient(srv.URL, 1), "http client&more"); err != nil {
		t.Fatal(err)
	}
	if rawQuery != "q=http+client%26more&page=1" {
		t.Errorf("query = %q", rawQuery)
	}
}

func TestPagesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, page(snippetHTML("first", "1.0")))
	}))
	defer srv.Close()

	snips, err := collect(t, testClient(srv.URL, 2), "x")
	if len(snips) != 1 {
		t.Errorf("got %d snippets before failure, want 1", len(snips))
	}
	if perrors.GetStage(err) != perrors.StageSearchPage {
		t.Fatalf("stage = %q, want %q (err %v)", perrors.GetStage(err), perrors.StageSearchPage, err)
	}
	var se *perrors.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("error should carry status 503, got %v", err)
	}
}

func TestPagesStopsWhenConsumerStops(t *testing.T) {
	srv := newIndexServer(t, map[string]string{
		"1": page(snippetHTML("a", "1"), snippetHTML("b", "1")),
		"2": page(snippetHTML("c", "1")),
	})
	c := testClient(srv.URL, 2)
	for range c.Pages(context.Background(), "x") {
		break
	}
	if got := srv.pagesRequested(); len(got) != 1 {
		t.Errorf("requests = %v, want only page 1", got)
	}
}

func TestPagesPassesChallenge(t *testing.T) {
	base := "a1b2"
	sum := sha256.Sum256([]byte(base + "Qx"))
	script := fmt.Sprintf(`var c={base:"%s",hash:"%s",hmac:"m",expires:"9",token:"t"};`, base, hex.EncodeToString(sum[:]))

	var posts int
	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("cleared"); err != nil {
			io.WriteString(w, `<html><script src="/pow/script.js"></script></html>`)
			return
		}
		io.WriteString(w, page(snippetHTML("gated-"+r.URL.Query().Get("page"), "1.0")))
	})
	mux.HandleFunc("/pow/script.js", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, script)
	})
	mux.HandleFunc("/pow/fst-post-back", func(w http.ResponseWriter, r *http.Request) {
		posts++
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"answer":"Qx"`) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "cleared", Value: "1", Path: "/"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	snips, err := collect(t, testClient(srv.URL, 2), "x")
	if err != nil {
		t.Fatalf("Pages() error: %v", err)
	}
	if len(snips) != 2 || snips[0].Name != "gated-1" || snips[1].Name != "gated-2" {
		t.Errorf("snippets = %+v", snips)
	}
	if posts != 1 {
		t.Errorf("post-backs = %d, want 1", posts)
	}
}

func TestPagesChallengeNotCleared(t *testing.T) {
	base := "a1b2"
	sum := sha256.Sum256([]byte(base + "Qx"))
	script := fmt.Sprintf(`var c={base:"%s",hash:"%s",hmac:"m",expires:"9",token:"t"};`, base, hex.EncodeToString(sum[:]))

	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><script src="/pow/script.js"></script></html>`)
	})
	mux.HandleFunc("/pow/script.js", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, script)
	})
	mux.HandleFunc("/pow/fst-post-back", func(w http.ResponseWriter, r *http.Request) {})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := collect(t, testClient(srv.URL, 2), "x")
	if !errors.Is(err, challenge.ErrUnsolvable) {
		t.Errorf("Pages() error = %v, want ErrUnsolvable", err)
	}
	if perrors.GetStage(err) != perrors.StageChallenge {
		t.Errorf("stage = %q, want challenge", perrors.GetStage(err))
	}
}

const detailPage = `<html><body>
<div class="sidebar-section">
  <h3 class="sidebar-section__title">Project links</h3>
  <ul class="vertical-tabs__list">
    %s
  </ul>
</div>
</body></html>`

func TestRepositoryLink(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantRepo  string
		wantOK    bool
		wantError bool
	}{
		{
			name:     "github homepage",
			body:     fmt.Sprintf(detailPage, `<li><a class="vertical-tabs__tab" href="https://github.com/psf/requests">Homepage</a></li>`),
			wantRepo: "psf/requests",
			wantOK:   true,
		},
		{
			name: "issue tracker first",
			body: fmt.Sprintf(detailPage, `<li><a href="https://github.com/pallets/flask/issues/">Issue Tracker</a></li>
<li><a href="https://github.com/pallets/flask/">Source Code</a></li>`),
			wantRepo: "pallets/flask",
			wantOK:   true,
		},
		{
			name:   "docs homepage",
			body:   fmt.Sprintf(detailPage, `<li><a href="https://requests.readthedocs.io">Homepage</a></li>`),
			wantOK: false,
		},
		{
			name:   "no sidebar",
			body:   `<html><body><p>nothing</p></body></html>`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			loc, ok, err := testClient(srv.URL, 1).RepositoryLink(context.Background(), "requests")
			if err != nil {
				t.Fatalf("RepositoryLink() error: %v", err)
			}
			if path != "/project/requests/" {
				t.Errorf("path = %q, want /project/requests/", path)
			}
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && loc.String() != tt.wantRepo {
				t.Errorf("locator = %s, want %s", loc, tt.wantRepo)
			}
		})
	}
}

func TestRepositoryLinkNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, ok, err := testClient(srv.URL, 1).RepositoryLink(context.Background(), "missing")
	if ok || err == nil {
		t.Fatalf("RepositoryLink() = (%v, %v), want error", ok, err)
	}
	if perrors.GetStage(err) != perrors.StageDetailPage {
		t.Errorf("stage = %q, want %q", perrors.GetStage(err), perrors.StageDetailPage)
	}
	var se *perrors.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("error should carry status 404, got %v", err)
	}
}

func TestRepositoryLinkRejectsInvalidNames(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.NotFound(w, r)
	}))
	defer srv.Close()

	for _, name := range []string{"", "../admin", "bad name", "-leading"} {
		_, ok, err := testClient(srv.URL, 1).RepositoryLink(context.Background(), name)
		if ok || err != nil {
			t.Errorf("RepositoryLink(%q) = (%v, %v), want (false, nil)", name, ok, err)
		}
	}
	if calls != 0 {
		t.Errorf("invalid names fetched %d pages, want 0", calls)
	}
}

func TestSearchURL(t *testing.T) {
	c := NewClient(nil, Options{}, nil)
	if got := c.SearchURL("flask login"); got != "https://pypi.org/search/?q=flask+login" {
		t.Errorf("SearchURL() = %q", got)
	}
	if got := c.PageURL("flask", 2); got != "https://pypi.org/search/?q=flask&page=2" {
		t.Errorf("PageURL() = %q", got)
	}
	if got := c.ProjectURL("zope.interface"); got != "https://pypi.org/project/zope.interface/" {
		t.Errorf("ProjectURL() = %q", got)
	}
}

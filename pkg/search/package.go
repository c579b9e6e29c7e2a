package search

import (
	"net/url"
	"strings"
	"time"

	perrors "github.com/matzehuels/pipsearch/pkg/errors"
	"github.com/matzehuels/pipsearch/pkg/integrations/github"
	"github.com/matzehuels/pipsearch/pkg/scrape"
)

// Package is one search result.
//
// Enriched is true only when the repository statistics came from a
// successful API response, in which case RepositoryLink is set. Otherwise
// Stars, Forks and Watchers are zero.
type Package struct {
	Name           string
	Version        string
	Released       time.Time
	Description    string
	Link           string // absolute URL of the package page
	RepositoryLink string
	Stars          int
	Forks          int
	Watchers       int
	Enriched       bool
}

// releasedLayouts are the accepted release timestamp formats, tried in order.
var releasedLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
}

// ParseReleased parses a release timestamp as published by the index.
// The offset is required.
func ParseReleased(raw string) (time.Time, error) {
	var firstErr error
	for _, layout := range releasedLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// Build converts a scraped snippet into a Package.
//
// The link is the snippet's href resolved against cfg.SearchURL, or the
// expanded cfg.LinkTemplate when the snippet has none. The version is taken
// from the snippet as is. A release timestamp that does not parse is an
// error tagged with the record build stage.
func Build(s scrape.Snippet, cfg Config) (*Package, error) {
	released, err := ParseReleased(s.Released)
	if err != nil {
		return nil, perrors.AtStage(perrors.StageBuild, perrors.ErrCodeTimestamp, err,
			"package %s: release timestamp %q", s.Name, s.Released)
	}

	link, err := resolveLink(s, cfg)
	if err != nil {
		return nil, perrors.AtStage(perrors.StageBuild, perrors.ErrCodeExtraction, err,
			"package %s: link %q", s.Name, s.Href)
	}

	return &Package{
		Name:        s.Name,
		Version:     s.Version,
		Released:    released,
		Description: s.Description,
		Link:        link,
	}, nil
}

func resolveLink(s scrape.Snippet, cfg Config) (string, error) {
	if s.Href == "" {
		return ExpandLinkTemplate(cfg.LinkTemplate, cfg.IndexURL, s.Name), nil
	}
	base, err := url.Parse(cfg.SearchURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(s.Href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// ExpandLinkTemplate substitutes {base} and {name} in tmpl. A trailing slash
// on base is dropped so "{base}/project" never doubles it.
func ExpandLinkTemplate(tmpl, base, name string) string {
	return strings.NewReplacer(
		"{base}", strings.TrimSuffix(base, "/"),
		"{name}", url.PathEscape(name),
	).Replace(tmpl)
}

// merge applies repository statistics. Incomplete stats leave p unchanged.
func (p *Package) merge(st github.Stats) {
	if !st.Complete {
		return
	}
	p.Stars = st.Stars
	p.Forks = st.Forks
	p.Watchers = st.Watchers
	p.RepositoryLink = st.RepositoryLink
	p.Enriched = st.RepositoryLink != ""
}

package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/matzehuels/pipsearch/pkg/errors"
	"github.com/matzehuels/pipsearch/pkg/integrations/github"
	"github.com/matzehuels/pipsearch/pkg/scrape"
)

func TestBuild(t *testing.T) {
	cfg := DefaultConfig()
	snip := scrape.Snippet{
		Name:        "requests",
		Version:     "2.31.0",
		Released:    "2023-05-22T00:00:00+0000",
		Description: "HTTP for Humans",
		Href:        "/project/requests/",
	}

	pkg, err := Build(snip, cfg)
	require.NoError(t, err)

	assert.Equal(t, "requests", pkg.Name)
	assert.Equal(t, "2.31.0", pkg.Version)
	assert.Equal(t, "HTTP for Humans", pkg.Description)
	assert.True(t, pkg.Released.Equal(time.Date(2023, 5, 22, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "https://pypi.org/project/requests/", pkg.Link)
	assert.Empty(t, pkg.RepositoryLink)
	assert.Zero(t, pkg.Stars)
	assert.Zero(t, pkg.Forks)
	assert.Zero(t, pkg.Watchers)
	assert.False(t, pkg.Enriched)
}

func TestBuildLink(t *testing.T) {
	tests := []struct {
		name string
		href string
		cfg  func(*Config)
		want string
	}{
		{
			name: "relative href",
			href: "/project/foo/",
			want: "https://pypi.org/project/foo/",
		},
		{
			name: "path-relative href",
			href: "foo/",
			want: "https://pypi.org/search/foo/",
		},
		{
			name: "absolute href",
			href: "https://test.pypi.org/project/foo/",
			want: "https://test.pypi.org/project/foo/",
		},
		{
			name: "missing href uses template",
			want: "https://pypi.org/project/foo/",
		},
		{
			name: "custom template and index",
			cfg: func(c *Config) {
				c.IndexURL = "https://mirror.example/"
				c.LinkTemplate = "{base}/pkg/{name}"
			},
			want: "https://mirror.example/pkg/foo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			pkg, err := Build(scrape.Snippet{Name: "foo", Version: "1", Released: "2020-01-01T00:00:00+0000", Href: tt.href}, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pkg.Link)
		})
	}
}

func TestBuildTimestamp(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Time
		wantErr bool
	}{
		{raw: "2023-05-22T14:42:37+0000", want: time.Date(2023, 5, 22, 14, 42, 37, 0, time.UTC)},
		{raw: "2023-05-22T14:42:37+02:00", want: time.Date(2023, 5, 22, 12, 42, 37, 0, time.UTC)},
		{raw: "2023-05-22T14:42:37Z", want: time.Date(2023, 5, 22, 14, 42, 37, 0, time.UTC)},
		{raw: "May 22, 2023", wantErr: true},
		{raw: "2023-05-22T14:42:37", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			pkg, err := Build(scrape.Snippet{Name: "x", Version: "1", Released: tt.raw}, DefaultConfig())
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, perrors.Is(err, perrors.ErrCodeTimestamp))
				assert.Equal(t, perrors.StageBuild, perrors.GetStage(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, pkg.Released.Equal(tt.want), "got %s", pkg.Released)
		})
	}
}

func TestMerge(t *testing.T) {
	pkg := &Package{Name: "requests"}
	pkg.merge(github.Stats{Stars: 5, Outcome: github.OutcomeRateLimited})
	assert.Equal(t, &Package{Name: "requests"}, pkg)

	pkg.merge(github.Stats{
		Stars: 51000, Forks: 9300, Watchers: 51000,
		RepositoryLink: "https://github.com/psf/requests",
		Complete:       true,
		Outcome:        github.OutcomeOK,
	})
	assert.True(t, pkg.Enriched)
	assert.Equal(t, 51000, pkg.Stars)
	assert.Equal(t, 9300, pkg.Forks)
	assert.Equal(t, "https://github.com/psf/requests", pkg.RepositoryLink)
}

package cli

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	perrors "github.com/matzehuels/pipsearch/pkg/errors"
	"github.com/matzehuels/pipsearch/pkg/search"
)

func testPackages() []*search.Package {
	return []*search.Package{
		{
			Name:           "requests",
			Version:        "2.31.0",
			Released:       time.Date(2023, 5, 22, 15, 12, 44, 0, time.UTC),
			Description:    "Python HTTP for Humans.",
			Link:           "https://pypi.org/project/requests/",
			RepositoryLink: "https://github.com/psf/requests",
			Stars:          51000,
			Forks:          9200,
			Watchers:       1300,
			Enriched:       true,
		},
		{
			Name:        "requests-mock",
			Version:     "1.11.0",
			Released:    time.Date(2023, 6, 9, 0, 0, 0, 0, time.UTC),
			Description: "Mock out responses from the requests package",
			Link:        "https://pypi.org/project/requests-mock/",
		},
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range validFormats {
		if err := validateFormat(f); err != nil {
			t.Errorf("validateFormat(%q) error: %v", f, err)
		}
	}
	if err := validateFormat("json"); !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("validateFormat(json) = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderOptsHeaders(t *testing.T) {
	tests := []struct {
		links, extra bool
		want         string
	}{
		{false, false, "Package Version Released Description"},
		{true, false, "Package Version Released Description Link"},
		{false, true, "Package Version Released Description GH info"},
		{true, true, "Package Version Released Description Link GH info"},
	}

	for _, tt := range tests {
		got := strings.Join(renderOpts{links: tt.links, extra: tt.extra}.headers(), " ")
		if got != tt.want {
			t.Errorf("headers(links=%v, extra=%v) = %q, want %q", tt.links, tt.extra, got, tt.want)
		}
	}
}

func TestRenderOptsCells(t *testing.T) {
	opts := renderOpts{
		dateFormat: "%d-%m-%Y",
		links:      true,
		extra:      true,
		installed:  map[string]string{"requests": "2.28.0"},
	}
	pkgs := testPackages()

	got := opts.cells(pkgs[0], plain)
	want := []string{
		"requests", "2.31.0 > 2.28.0", "22-05-2023", "Python HTTP for Humans.",
		"https://pypi.org/project/requests/", "s:51000 f:9200 w:1300",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("cells() = %q, want %q", got, want)
	}

	got = opts.cells(pkgs[1], plain)
	if got[1] != "1.11.0" {
		t.Errorf("version of a package that is not installed = %q", got[1])
	}
	if got[5] != "" {
		t.Errorf("GH info of a package without stats = %q, want empty", got[5])
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	err := render(&buf, formatText, testPackages(), renderOpts{dateFormat: "%Y-%m-%d", extra: true})
	if err != nil {
		t.Fatalf("render() error: %v", err)
	}

	want := "requests l:https://pypi.org/project/requests/ ver:2.31.0 rel:2023-05-22 gh:https://github.com/psf/requests s:51000 f:9200 w:1300\n" +
		"\tdescription: Python HTTP for Humans.\n" +
		"requests-mock l:https://pypi.org/project/requests-mock/ ver:1.11.0 rel:2023-06-09\n" +
		"\tdescription: Mock out responses from the requests package\n"
	if buf.String() != want {
		t.Errorf("render(text) =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestRenderTextWithoutExtraHidesStats(t *testing.T) {
	var buf bytes.Buffer
	if err := render(&buf, formatText, testPackages()[:1], renderOpts{dateFormat: "%Y"}); err != nil {
		t.Fatalf("render() error: %v", err)
	}
	if strings.Contains(buf.String(), "gh:") {
		t.Errorf("stats shown without extra: %q", buf.String())
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	opts := renderOpts{
		title:      "https://pypi.org/search/?q=requests",
		dateFormat: "%d-%m-%Y",
		links:      true,
		installed:  map[string]string{"requests": "2.31.0"},
	}
	if err := render(&buf, formatTable, testPackages(), opts); err != nil {
		t.Fatalf("render() error: %v", err)
	}

	out := buf.String()
	lines := strings.Split(out, "\n")
	if !strings.Contains(lines[0], opts.title) {
		t.Errorf("first line %q should be the title", lines[0])
	}
	for _, want := range []string{"Package", "Link", "requests-mock", "2.31.0 ==", "09-06-2023", "https://pypi.org/project/requests/"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "GH info") {
		t.Errorf("table shows GH info without extra:\n%s", out)
	}
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := render(&buf, formatMarkdown, testPackages(), renderOpts{dateFormat: "%d-%m-%Y"}); err != nil {
		t.Fatalf("render() error: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "| Package | Version | Released | Description |") {
		t.Errorf("markdown header missing:\n%s", out)
	}
	if !strings.Contains(out, "| requests | 2.31.0 | 22-05-2023 | Python HTTP for Humans. |") {
		t.Errorf("markdown row missing:\n%s", out)
	}
}

func TestRenderCSVQuotesCommas(t *testing.T) {
	pkgs := testPackages()[:1]
	pkgs[0].Description = `HTTP, for "humans"`

	var buf bytes.Buffer
	if err := render(&buf, formatCSV, pkgs, renderOpts{dateFormat: "%d-%m-%Y"}); err != nil {
		t.Fatalf("render() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || lines[0] != "Package,Version,Released,Description" {
		t.Fatalf("render(csv) = %q", buf.String())
	}
	if !strings.HasSuffix(lines[1], `,"HTTP, for ""humans"""`) {
		t.Errorf("description not quoted: %q", lines[1])
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("csv.ReadAll() error: %v", err)
	}
	if got := records[1][3]; got != pkgs[0].Description {
		t.Errorf("description read back as %q, want %q", got, pkgs[0].Description)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := render(&buf, "yaml", testPackages(), renderOpts{})
	if !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("render(yaml) error = %v, want INVALID_FORMAT", err)
	}
	if buf.Len() != 0 {
		t.Errorf("render(yaml) wrote %q", buf.String())
	}
}

package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	perrors "github.com/matzehuels/pipsearch/pkg/errors"
	"github.com/matzehuels/pipsearch/pkg/search"
)

// Output formats.
const (
	formatTable    = "table"
	formatText     = "text"
	formatMarkdown = "markdown"
	formatCSV      = "csv"
)

var validFormats = []string{formatTable, formatText, formatMarkdown, formatCSV}

// Column headers.
const (
	colPackage     = "Package"
	colVersion     = "Version"
	colReleased    = "Released"
	colDescription = "Description"
	colLink        = "Link"
	colGitHub      = "GH info"
)

func validateFormat(format string) error {
	if !slices.Contains(validFormats, format) {
		return perrors.New(perrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(validFormats, ", "))
	}
	return nil
}

// renderOpts controls which columns are shown and how values are formatted.
type renderOpts struct {
	title      string // search URL shown above the table
	dateFormat string
	links      bool
	extra      bool
	installed  map[string]string // normalized name -> installed version
}

func (o renderOpts) headers() []string {
	h := []string{colPackage, colVersion, colReleased, colDescription}
	if o.links {
		h = append(h, colLink)
	}
	if o.extra {
		h = append(h, colGitHub)
	}
	return h
}

// cells returns the row for p in header order. The installed marker is
// rendered through mark so the table can style it.
func (o renderOpts) cells(p *search.Package, mark func(string) string) []string {
	version := p.Version
	if m := installedMarker(o.installed, p.Name, p.Version); m != "" {
		version += " " + mark(m)
	}
	row := []string{p.Name, version, search.FormatDate(p.Released, o.dateFormat), p.Description}
	if o.links {
		row = append(row, p.Link)
	}
	if o.extra {
		row = append(row, ghInfo(p))
	}
	return row
}

// ghInfo summarizes repository statistics, or "" for packages that were not enriched.
func ghInfo(p *search.Package) string {
	if !p.Enriched {
		return ""
	}
	return fmt.Sprintf("s:%d f:%d w:%d", p.Stars, p.Forks, p.Watchers)
}

func plain(s string) string { return s }

func styledMarker(m string) string {
	if m == "==" {
		return styleInstalled.Render(m)
	}
	return styleUpgrade.Render(m)
}

// render writes pkgs to w in the given format.
func render(w io.Writer, format string, pkgs []*search.Package, opts renderOpts) error {
	switch format {
	case formatTable:
		return renderTable(w, pkgs, opts)
	case formatText:
		return renderText(w, pkgs, opts)
	case formatMarkdown:
		return renderMarkdown(w, pkgs, opts)
	case formatCSV:
		return renderCSV(w, pkgs, opts)
	}
	return validateFormat(format)
}

// =============================================================================
// Table
// =============================================================================

func renderTable(w io.Writer, pkgs []*search.Package, opts renderOpts) error {
	headers := opts.headers()
	rows := make([][]string, len(pkgs))
	for i, p := range pkgs {
		rows[i] = opts.cells(p, styledMarker)
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	columns := make([]lipgloss.Style, len(headers))
	for i, h := range headers {
		switch h {
		case colPackage:
			columns[i] = cell.Inherit(styleName)
		case colVersion:
			columns[i] = cell.Inherit(styleVersion)
		case colReleased:
			columns[i] = cell.Inherit(styleReleased)
		case colLink:
			columns[i] = cell.Inherit(StyleLink)
		case colGitHub:
			columns[i] = cell.Inherit(styleStats)
		default:
			columns[i] = cell
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return cell.Inherit(styleHeader)
			}
			return columns[col]
		})

	if opts.title != "" {
		if _, err := fmt.Fprintln(w, StyleTitle.Render("🐍 "+opts.title)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// =============================================================================
// Text
// =============================================================================

// renderText writes two lines per package:
//
//	requests l:https://pypi.org/project/requests/ ver:2.31.0 rel:22-05-2023 gh:https://github.com/psf/requests s:50000 f:9000 w:1300
//		description: Python HTTP for Humans.
func renderText(w io.Writer, pkgs []*search.Package, opts renderOpts) error {
	for _, p := range pkgs {
		var b strings.Builder
		fmt.Fprintf(&b, "%s l:%s ver:%s", p.Name, p.Link, p.Version)
		if m := installedMarker(opts.installed, p.Name, p.Version); m != "" {
			fmt.Fprintf(&b, " %s", m)
		}
		fmt.Fprintf(&b, " rel:%s", search.FormatDate(p.Released, opts.dateFormat))
		if opts.extra && p.Enriched {
			fmt.Fprintf(&b, " gh:%s s:%d f:%d w:%d", p.RepositoryLink, p.Stars, p.Forks, p.Watchers)
		}
		fmt.Fprintf(&b, "\n\tdescription: %s\n", p.Description)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

package cli

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/matzehuels/pipsearch/pkg/search"
)

// renderMarkdown writes pkgs as a GitHub-flavored markdown table.
func renderMarkdown(w io.Writer, pkgs []*search.Package, opts renderOpts) error {
	t := table.NewWriter()
	t.AppendHeader(toRow(opts.headers()))
	for _, p := range pkgs {
		t.AppendRow(toRow(opts.cells(p, plain)))
	}
	_, err := fmt.Fprintln(w, t.RenderMarkdown())
	return err
}

// renderCSV writes pkgs as RFC 4180 CSV with a header record.
func renderCSV(w io.Writer, pkgs []*search.Package, opts renderOpts) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(opts.headers()); err != nil {
		return err
	}
	for _, p := range pkgs {
		if err := cw.Write(opts.cells(p, plain)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

package scrape

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parse reads an HTML document.
func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// classSelector matches tag elements whose class attribute contains token.
// An empty tag matches any element.
func classSelector(tag, token string) string {
	return fmt.Sprintf(`%s[class*=%q]`, tag, token)
}

// Lookup returns the first descendant of sel with the given tag whose class
// attribute contains token. The result is empty (Length() == 0) when nothing
// matches.
func Lookup(sel *goquery.Selection, tag, token string) *goquery.Selection {
	return sel.Find(classSelector(tag, token)).First()
}

// LookupAll returns every descendant of sel with the given tag whose class
// attribute contains token, in document order.
func LookupAll(sel *goquery.Selection, tag, token string) *goquery.Selection {
	return sel.Find(classSelector(tag, token))
}

// Text returns the whitespace-normalized text of sel: runs of whitespace
// collapse to a single space and the result is trimmed.
func Text(sel *goquery.Selection) string {
	return Normalize(sel.Text())
}

// Normalize collapses runs of whitespace in s to single spaces and trims it.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

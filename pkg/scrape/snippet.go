package scrape

import (
	"fmt"
	"iter"

	"github.com/PuerkitoBio/goquery"
)

// Class tokens of a search result element and its fields.
const (
	TokenSnippet     = "package-snippet"
	TokenName        = "name"
	TokenVersion     = "version"
	TokenReleased    = "released"
	TokenDescription = "description"
)

// Snippet is one search result as scraped from the page.
// Text fields are whitespace-normalized.
type Snippet struct {
	Name        string
	Version     string
	Released    string // ISO-8601 timestamp, unparsed
	Description string
	Href        string // as found in the markup; may be relative or empty
}

// FieldError reports a result element that lacks a required field.
type FieldError struct {
	Index int    // position of the element on its page
	Field string // class token of the missing field
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("result %d: missing %s", e.Index, e.Field)
}

// Snippets yields the search results found in doc in document order.
//
// Elements missing a name, version or release date yield a *FieldError
// instead of a Snippet; iteration continues with the next element. A missing
// description leaves Description empty, and a missing href leaves Href empty.
func Snippets(doc *goquery.Document) iter.Seq2[Snippet, error] {
	return func(yield func(Snippet, error) bool) {
		LookupAll(doc.Selection, "a", TokenSnippet).EachWithBreak(func(i int, sel *goquery.Selection) bool {
			s, field := extract(sel)
			if field != "" {
				return yield(Snippet{}, &FieldError{Index: i, Field: field})
			}
			return yield(s, nil)
		})
	}
}

// extract reads one result element. It returns the token of the first
// missing required field, or "" on success.
func extract(sel *goquery.Selection) (Snippet, string) {
	var s Snippet

	name := Lookup(sel, "span", TokenName)
	if name.Length() == 0 {
		return s, TokenName
	}
	s.Name = Text(name)
	if s.Name == "" {
		return s, TokenName
	}

	version := Lookup(sel, "span", TokenVersion)
	if version.Length() == 0 {
		return s, TokenVersion
	}
	s.Version = Text(version)

	released := Lookup(sel, "span", TokenReleased)
	if released.Length() == 0 {
		return s, TokenReleased
	}
	if dt, ok := released.Find("time").First().Attr("datetime"); ok {
		s.Released = Normalize(dt)
	} else {
		s.Released = Text(released)
	}

	s.Description = Text(Lookup(sel, "p", TokenDescription))
	s.Href, _ = sel.Attr("href")
	return s, ""
}

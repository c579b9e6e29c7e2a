package scrape

import (
	"net/url"
	"slices"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// Link is an entry of a detail page's project links sidebar.
type Link struct {
	Text string
	Href string
}

const (
	tokenSidebar      = "sidebar-section"
	tokenSidebarTitle = "sidebar-section__title"
	tokenLinkList     = "vertical-tabs__list"
	projectLinksTitle = "project links"
)

// ProjectLinks returns the links listed under "Project links" on a package
// detail page, in page order. It falls back to the first vertical link list
// on the page when no section carries that title, and returns nil when
// neither exists.
func ProjectLinks(doc *goquery.Document) []Link {
	list := projectLinksList(doc)
	if list == nil {
		return nil
	}
	var links []Link
	list.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		links = append(links, Link{Text: Text(a), Href: strings.TrimSpace(href)})
	})
	return links
}

func projectLinksList(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection
	LookupAll(doc.Selection, "", tokenSidebar).EachWithBreak(func(_ int, section *goquery.Selection) bool {
		title := strings.ToLower(Text(Lookup(section, "", tokenSidebarTitle)))
		if !strings.Contains(title, projectLinksTitle) {
			return true
		}
		if list := Lookup(section, "ul", tokenLinkList); list.Length() > 0 {
			found = list
		} else if list := section.Find("ul").First(); list.Length() > 0 {
			found = list
		}
		return found == nil
	})
	if found != nil {
		return found
	}
	if list := Lookup(doc.Selection, "ul", tokenLinkList); list.Length() > 0 {
		return list
	}
	return nil
}

var (
	issueTrackerWords    = []string{"issue", "issues", "bug", "bugs", "tracker"}
	issueTrackerSegments = []string{"issues", "bugs"}
)

// Homepage picks the project's homepage from its sidebar links: the first
// entry, or the second when the first looks like an issue tracker.
func Homepage(links []Link) (string, bool) {
	if len(links) == 0 {
		return "", false
	}
	if looksLikeIssueTracker(links[0]) {
		if len(links) < 2 {
			return "", false
		}
		return links[1].Href, true
	}
	return links[0].Href, true
}

// looksLikeIssueTracker matches whole words of the link text, or an issues
// path segment of the href. Substrings such as "debug" do not count.
func looksLikeIssueTracker(l Link) bool {
	words := strings.FieldsFunc(strings.ToLower(l.Text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if slices.Contains(issueTrackerWords, w) {
			return true
		}
	}
	u, err := url.Parse(l.Href)
	if err != nil {
		return false
	}
	for _, seg := range strings.Split(strings.ToLower(u.Path), "/") {
		if slices.Contains(issueTrackerSegments, seg) {
			return true
		}
	}
	return false
}

package htmlutil

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText strips non-printable runes, trims and collapses the inner
// whitespace of a scraped text fragment.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	s = innerWhitespace.ReplaceAllString(s, " ")
	return s
}

// Anchor is one link harvested from a candidate container.
type Anchor struct {
	Name string
	Href string
}

// Anchors collects the links under sel in document order, the selection
// itself first when it carries an href of its own. Names are cleaned
// display text; hrefs are returned raw for the caller to resolve.
func Anchors(sel *goquery.Selection) []Anchor {
	var out []Anchor
	if href, ok := sel.Attr("href"); ok {
		out = append(out, Anchor{
			Name: CleanText(sel.Text()),
			Href: href,
		})
	}
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		out = append(out, Anchor{
			Name: CleanText(a.Text()),
			Href: href,
		})
	})
	return out
}

// ResolveHref resolves a possibly-relative href against the page url.
// Returns "" when the href cannot be parsed.
func ResolveHref(pageURL *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if pageURL == nil {
		return ref.String()
	}
	return pageURL.ResolveReference(ref).String()
}

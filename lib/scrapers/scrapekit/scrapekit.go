// Package scrapekit holds the selector-chain mechanics shared by the
// site extractors: candidate discovery, field resolution and identity
// derivation. Each helper is pure over an already-parsed document so the
// site packages stay small and independently testable against fixtures.
package scrapekit

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"dueboard/lib/htmlutil"
	"dueboard/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DeadlineKeywords gate the free-text fallbacks: a container or text
// block with none of these is never treated as a deadline candidate.
var DeadlineKeywords = []string{"due", "deadline", "homework", "quiz", "exam"}

const (
	// containers longer than this are page-level chrome, not candidates
	maxCandidateTextLen = 1200
	minCandidateTextLen = 10
)

// SelectUnion runs every selector and unions the matched nodes into one
// deduplicated candidate list, preserving first-seen order.
func SelectUnion(doc *goquery.Document, selectors []string) []*goquery.Selection {
	seen := map[*html.Node]bool{}
	var out []*goquery.Selection

	for _, selector := range selectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			node := sel.Get(0)
			if seen[node] {
				return
			}
			seen[node] = true
			out = append(out, sel)
		})
	}
	return out
}

// KeywordScan is the discovery fallback for markup none of the
// structural selectors recognize: generic containers whose text mentions
// a deadline keyword and is short enough to be a single item. Only the
// innermost matching containers survive; an ancestor of a kept match is
// page structure, not an item.
func KeywordScan(doc *goquery.Document) []*goquery.Selection {
	var matched []*goquery.Selection
	doc.Find("tr, li, div, article, section").Each(func(_ int, sel *goquery.Selection) {
		text := textutil.CollapseWhitespace(sel.Text())
		if len(text) <= minCandidateTextLen || len(text) > maxCandidateTextLen {
			return
		}
		if !textutil.MatchName(text, DeadlineKeywords) {
			return
		}
		matched = append(matched, sel)
	})

	var out []*goquery.Selection
	for _, sel := range matched {
		inner := false
		for _, other := range matched {
			if other != sel && isAncestor(sel.Get(0), other.Get(0)) {
				inner = true
				break
			}
		}
		if !inner {
			out = append(out, sel)
		}
	}
	return out
}

func isAncestor(ancestor, node *html.Node) bool {
	for p := node.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// PlausibleCandidate applies the shared size gate to a discovered node.
func PlausibleCandidate(sel *goquery.Selection) bool {
	text := textutil.CollapseWhitespace(sel.Text())
	return len(text) > minCandidateTextLen && len(text) <= maxCandidateTextLen
}

// FirstText returns the first non-empty cleaned text produced by the
// ordered selector list, scoped to the candidate.
func FirstText(sel *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		found := sel.Find(selector).First()
		if found.Length() == 0 {
			continue
		}
		text := htmlutil.CleanText(found.Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// TitleFallback picks the first reasonably sized text line of the
// candidate that does not mention "due"; returns "" when nothing fits.
func TitleFallback(sel *goquery.Selection) string {
	return textutil.FirstGoodLine(sel.Text(), 3, 120, []string{"due"})
}

// SynthesizeTitle names a candidate that yielded no title of its own.
func SynthesizeTitle(kind string, index int) string {
	return fmt.Sprintf("%s %d", kind, index+1)
}

// DueText resolves the due-date fragment for a candidate: the ordered
// selector list first (a machine-readable datetime attribute beats the
// element's display text), then, only when the candidate's own text
// carries a deadline keyword, the keyword-bearing line itself. The
// keyword gate keeps unrelated text blocks from parsing as dates.
func DueText(sel *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		found := sel.Find(selector).First()
		if found.Length() == 0 {
			continue
		}
		if attr, ok := found.Attr("datetime"); ok && strings.TrimSpace(attr) != "" {
			return strings.TrimSpace(attr)
		}
		text := htmlutil.CleanText(found.Text())
		if text != "" {
			return text
		}
	}

	for _, line := range strings.Split(sel.Text(), "\n") {
		line = textutil.CollapseWhitespace(line)
		if line == "" {
			continue
		}
		if textutil.MatchName(line, []string{"due", "deadline"}) {
			return line
		}
	}
	return ""
}

// ResolveLink picks the candidate's navigation target: the first anchor
// (the candidate itself included) whose href matches pathPattern,
// resolved against the page url; the page url itself otherwise.
func ResolveLink(sel *goquery.Selection, pageURL *url.URL, pathPattern *regexp.Regexp) string {
	try := func(href string) string {
		if href == "" {
			return ""
		}
		abs := htmlutil.ResolveHref(pageURL, href)
		if abs != "" && pathPattern.MatchString(abs) {
			return abs
		}
		return ""
	}

	for _, anchor := range htmlutil.Anchors(sel) {
		if abs := try(anchor.Href); abs != "" {
			return abs
		}
	}
	if pageURL != nil {
		return pageURL.String()
	}
	return ""
}

var idSanitize = regexp.MustCompile(`[^A-Za-z0-9-]`)

// RecordID derives the stable identity of a record from its link alone,
// so two scrapes of the same assignment page agree even when the
// surrounding text shifts.
func RecordID(prefix, link string) string {
	return prefix + "-" + idSanitize.ReplaceAllString(link, "-")
}

// CourseName walks the ordered selector list for the first non-empty
// text. A hit that matches one of the site-brand sentinels is page
// chrome, not a course: the nearest navigation ancestor is searched for
// a more specific entry before the default is accepted.
func CourseName(doc *goquery.Document, selectors []string, brandSentinels []string, fallback string) string {
	for _, selector := range selectors {
		found := doc.Find(selector).First()
		if found.Length() == 0 {
			continue
		}
		text := htmlutil.CleanText(found.Text())
		if text == "" {
			continue
		}
		if !textutil.MatchName(text, brandSentinels) {
			return text
		}

		nav := found.Closest("nav, header")
		refined := ""
		nav.Find("a, span, h1, h2").EachWithBreak(func(_ int, alt *goquery.Selection) bool {
			altText := htmlutil.CleanText(alt.Text())
			if altText == "" || textutil.MatchName(altText, brandSentinels) {
				return true
			}
			refined = altText
			return false
		})
		if refined != "" {
			return refined
		}
	}
	return fallback
}

package scrapekit

import (
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestSelectUnionDedupes(t *testing.T) {
	doc := parse(t, `<table><tbody>
		<tr class="assignment"><td>row one content here</td></tr>
		<tr><td>row two content here</td></tr>
	</tbody></table>`)

	// both selectors match the first row; it must appear once
	sels := SelectUnion(doc, []string{"tr.assignment", "table tbody tr"})
	require.Len(t, sels, 2)
}

func TestKeywordScanKeepsInnermost(t *testing.T) {
	doc := parse(t, `<div class="page">
		<div class="item">Homework 5 due Apr 2</div>
		<div class="item">Reading list for next week</div>
	</div>`)

	sels := KeywordScan(doc)
	require.Len(t, sels, 1)
	require.Equal(t, "Homework 5 due Apr 2", strings.TrimSpace(sels[0].Text()))
}

func TestRecordIDSanitizes(t *testing.T) {
	id := RecordID("gradescope", "https://example.com/courses/1/assignments/2?x=1")
	require.Equal(t, "gradescope-https---example-com-courses-1-assignments-2-x-1", id)
	require.NotContains(t, id, "/")
	require.NotContains(t, id, ":")

	// identity is a pure function of the link
	require.Equal(t, id, RecordID("gradescope", "https://example.com/courses/1/assignments/2?x=1"))
}

func TestResolveLinkPrefersMatchingAnchor(t *testing.T) {
	doc := parse(t, `<tr>
		<td><a href="/help">help</a></td>
		<td><a href="/courses/1/assignments/2">HW</a></td>
	</tr>`)
	base, _ := url.Parse("https://example.com/courses/1")
	pattern := regexp.MustCompile(`/assignments/`)

	link := ResolveLink(doc.Find("tr").First(), base, pattern)
	require.Equal(t, "https://example.com/courses/1/assignments/2", link)

	// nothing matches: fall back to the page itself
	link = ResolveLink(doc.Find("td").First(), base, pattern)
	require.Equal(t, "https://example.com/courses/1", link)
}

func TestCourseNameBrandRefinement(t *testing.T) {
	doc := parse(t, `<nav>
		<span class="brand">Gradescope</span>
		<a href="/courses/1">CS 101</a>
	</nav>`)

	got := CourseName(doc, []string{".brand"}, []string{"gradescope"}, "Unknown Course")
	require.Equal(t, "CS 101", got)

	got = CourseName(doc, []string{".missing"}, []string{"gradescope"}, "Unknown Course")
	require.Equal(t, "Unknown Course", got)
}

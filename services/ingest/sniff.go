package ingest

import (
	"regexp"
	"strings"

	"dueboard/lib/deadline"

	"github.com/PuerkitoBio/goquery"
)

// savedFromRegex matches the comment browsers inject when a page is
// saved to disk, e.g. `<!-- saved from url=(0042)https://... -->`.
// goquery drops comment nodes, so the raw bytes are scanned instead.
var savedFromRegex = regexp.MustCompile(`saved from url=\((\d+)\)(\S+)`)

// DetectSite decides which extractor a snapshot belongs to. Content
// markers win; the filename hint only breaks ties when the markup is too
// generic to tell.
func DetectSite(doc *goquery.Document, filename string) (deadline.Source, bool) {
	if hasGradescopeMarkers(doc) {
		return deadline.SourceGradescope, true
	}
	if hasPrairieLearnMarkers(doc) {
		return deadline.SourcePrairieLearn, true
	}

	name := strings.ToLower(filename)
	if strings.Contains(name, "gradescope") {
		return deadline.SourceGradescope, true
	}
	if strings.Contains(name, "prairielearn") {
		return deadline.SourcePrairieLearn, true
	}
	return "", false
}

func hasGradescopeMarkers(doc *goquery.Document) bool {
	if doc.Find("table#assignments-student-table").Length() > 0 {
		return true
	}
	if doc.Find(".courseHeader--title, .submissionTimeChart--dueDate").Length() > 0 {
		return true
	}
	title := strings.ToLower(doc.Find("title").First().Text())
	return strings.Contains(title, "gradescope")
}

func hasPrairieLearnMarkers(doc *goquery.Document) bool {
	if doc.Find("table#assessments-table").Length() > 0 {
		return true
	}
	if doc.Find(`a[href*="pl/course_instance"]`).Length() > 0 {
		return true
	}
	title := strings.ToLower(doc.Find("title").First().Text())
	return strings.Contains(title, "prairielearn")
}

// PageURL recovers the origin url of a snapshot: the browser's
// "saved from url=" comment first, then <base href>, else empty.
func PageURL(raw []byte, doc *goquery.Document) string {
	if m := savedFromRegex.FindSubmatch(raw); m != nil {
		return string(m[2])
	}
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		return strings.TrimSpace(href)
	}
	return ""
}

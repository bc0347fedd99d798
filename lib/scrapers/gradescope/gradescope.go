// Package gradescope extracts assignment deadlines from Gradescope-shaped
// course pages. It never fetches anything itself: the document arrives
// already parsed from whatever delivered the page snapshot.
package gradescope

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"time"

	"dueboard/lib/datetext"
	"dueboard/lib/deadline"
	"dueboard/lib/scrapers/scrapekit"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("scrapers/gradescope")

// selector chains, most specific first. the assignments table markup has
// been stable for years; the generic shapes below it catch redesigns.
var candidateSelectors = []string{
	"table#assignments-student-table tbody tr",
	"table.table-assignments tbody tr",
	"table tbody tr[role=row]",
	"table tbody tr",
	"div[class*=assignment]",
}

var titleSelectors = []string{
	"th.table--primaryLink a",
	"th a",
	".table--primaryLink",
	"td a",
	"th",
	"h3",
}

var dueSelectors = []string{
	"time.submissionTimeChart--dueDate",
	"time[datetime]",
	".submissionTimeChart--dueDate",
	"td[class*=dueDate]",
	"span[class*=due]",
}

var courseSelectors = []string{
	".courseHeader--title",
	"h1.courseHeader--title",
	".sidebar--title",
	"header h1",
	"title",
}

var brandSentinels = []string{"gradescope", "dashboard", "home", "youraccount"}

var assignmentPath = regexp.MustCompile(`(?i)/(assignments?|homework|quiz(?:zes)?|exams?)(/|\d|$)`)

// Extract walks the document for assignment rows and returns one record
// per candidate that yields both a title and a parseable due date.
// Failures are contained per candidate; a bad row never aborts the batch.
func Extract(ctx context.Context, doc *goquery.Document, pageURL string, now time.Time) []deadline.Record {
	ctx, span := tracer.Start(ctx, "gradescope:Extract")
	defer span.End()

	base, err := url.Parse(pageURL)
	if err != nil {
		slog.WarnContext(ctx, "unparseable page url, links will stay relative", "url", pageURL, "err", err)
		base = nil
	}

	course := scrapekit.CourseName(doc, courseSelectors, brandSentinels, deadline.UnknownCourse)

	candidates := scrapekit.SelectUnion(doc, candidateSelectors)
	if len(candidates) == 0 {
		slog.DebugContext(ctx, "no structural candidates, falling back to keyword scan", "url", pageURL)
		candidates = scrapekit.KeywordScan(doc)
	}
	span.SetAttributes(attribute.Int("candidates", len(candidates)))

	var out []deadline.Record
	for i, sel := range candidates {
		if !scrapekit.PlausibleCandidate(sel) {
			continue
		}

		dueText := scrapekit.DueText(sel, dueSelectors)
		if dueText == "" {
			slog.WarnContext(ctx, "candidate has no due date text, dropping", "index", i, "course", course)
			continue
		}
		dueAt, err := datetext.Normalize(dueText, now)
		if err != nil {
			slog.WarnContext(ctx, "candidate due date did not parse, dropping", "index", i, "text", dueText, "err", err)
			continue
		}

		title := scrapekit.FirstText(sel, titleSelectors)
		if title == "" {
			title = scrapekit.TitleFallback(sel)
		}
		if title == "" {
			title = scrapekit.SynthesizeTitle("Assignment", i)
		}

		link := scrapekit.ResolveLink(sel, base, assignmentPath)
		out = append(out, deadline.Record{
			ID:      scrapekit.RecordID("gradescope", link),
			Title:   title,
			DueDate: dueAt,
			Course:  course,
			Link:    link,
			Source:  deadline.SourceGradescope,
		})
	}

	span.SetAttributes(attribute.Int("records", len(out)))
	return out
}

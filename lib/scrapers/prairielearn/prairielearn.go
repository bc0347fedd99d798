// Package prairielearn extracts assessment deadlines from
// PrairieLearn-shaped course pages. Parallel in shape to the gradescope
// extractor but with its own selector chains and text cleaning; the two
// evolve independently as the sites change.
package prairielearn

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

var tracer = otel.Tracer("scrapers/prairielearn")

var candidateSelectors = []string{
	"table#assessments-table tbody tr",
	"table.table tbody tr",
	"table tbody tr",
	"div.card",
}

var titleSelectors = []string{
	"a[href*=assessment]",
	"td a",
	".card-title",
	"td:first-child",
}

var dueSelectors = []string{
	"time[datetime]",
	"td[class*=date]",
	"td.text-center",
	"span[class*=credit]",
}

var courseSelectors = []string{
	"#content h1",
	".navbar-brand",
	".card-header",
	"title",
}

var brandSentinels = []string{"prairielearn", "courses", "home"}

var assessmentPath = regexp.MustCompile(`(?i)/(assessments?|assessment_instance|quiz(?:zes)?|exams?|homework)(/|\d|$)`)

// "Available until 23:59, Wed, Dec 10" style prefixes; the normalizer
// strips "until" but "available" is prairielearn chrome.
var availablePrefix = regexp.MustCompile(`(?i)\bavailable\b`)

// Extract walks the document for assessment rows and returns one record
// per candidate with a resolvable title and due date. Bad rows are
// dropped with a diagnostic, never fatally.
func Extract(ctx context.Context, doc *goquery.Document, pageURL string, now time.Time) []deadline.Record {
	ctx, span := tracer.Start(ctx, "prairielearn:Extract")
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
		dueText = availablePrefix.ReplaceAllString(dueText, " ")

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
			title = scrapekit.SynthesizeTitle("Assessment", i)
		}

		link := scrapekit.ResolveLink(sel, base, assessmentPath)
		out = append(out, deadline.Record{
			ID:      scrapekit.RecordID("prairielearn", link),
			Title:   title,
			DueDate: dueAt,
			Course:  course,
			Link:    link,
			Source:  deadline.SourcePrairieLearn,
		})
	}

	span.SetAttributes(attribute.Int("records", len(out)))
	return out
}

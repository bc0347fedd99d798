package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dueboard/lib/deadline"
	"dueboard/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const gradescopeSnapshot = `<!-- saved from url=(0052)https://www.gradescope.com/courses/1234 -->
<html><head><title>CS 225 | Gradescope</title></head>
<body>
<h1 class="courseHeader--title">CS 225</h1>
<table id="assignments-student-table"><tbody>
<tr>
  <th class="table--primaryLink"><a href="/courses/1234/assignments/55">Homework 3</a></th>
  <td><time class="submissionTimeChart--dueDate" datetime="2025-11-20T23:59:00">Nov 20 at 11:59PM</time></td>
</tr>
</tbody></table>
</body></html>`

const prairielearnSnapshot = `<html><head><title>Assessments - PrairieLearn</title>
<base href="https://us.prairielearn.com/pl/course_instance/42/assessments">
</head><body>
<nav><a class="navbar-brand" href="/pl">PrairieLearn</a><a href="/pl/course_instance/42">CS 374</a></nav>
<table id="assessments-table"><tbody>
<tr>
  <td><a href="/pl/course_instance/42/assessment/101/">Quiz 7</a></td>
  <td class="text-center">Available until 23:59, Wed, Dec 10</td>
</tr>
</tbody></table>
</body></html>`

type captureEngine struct {
	batches [][]deadline.Record
}

func (e *captureEngine) Ingest(ctx context.Context, items []deadline.Record) error {
	e.batches = append(e.batches, items)
	return nil
}

func setup(t *testing.T) (*Service, *captureEngine, string) {
	t.Cleanup(telemetry.SetupForTesting(t, "test:ingest"))
	engine := &captureEngine{}
	dir := t.TempDir()
	svc := NewService(engine, Options{DropDir: dir})
	return svc, engine, dir
}

func writeSnapshot(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngestFileGradescope(t *testing.T) {
	svc, engine, dir := setup(t)
	path := writeSnapshot(t, dir, "saved-page.html", gradescopeSnapshot)

	n, err := svc.IngestFile(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.Len(t, engine.batches, 1)
	rec := engine.batches[0][0]
	require.Equal(t, deadline.SourceGradescope, rec.Source)
	require.Equal(t, "Homework 3", rec.Title)
	require.Equal(t, "CS 225", rec.Course)
	// origin recovered from the saved-from comment makes the link absolute
	require.Equal(t, "https://www.gradescope.com/courses/1234/assignments/55", rec.Link)
}

func TestIngestFilePrairieLearn(t *testing.T) {
	svc, engine, dir := setup(t)
	path := writeSnapshot(t, dir, "assessments.html", prairielearnSnapshot)

	n, err := svc.IngestFile(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	rec := engine.batches[0][0]
	require.Equal(t, deadline.SourcePrairieLearn, rec.Source)
	require.Equal(t, "Quiz 7", rec.Title)
	require.True(t, strings.HasPrefix(rec.Link, "https://us.prairielearn.com/"))
}

func TestIngestFileUnknownSite(t *testing.T) {
	svc, engine, dir := setup(t)
	path := writeSnapshot(t, dir, "random.html", "<html><body><p>hello</p></body></html>")

	n, err := svc.IngestFile(context.Background(), path)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, engine.batches)

	// unknown snapshots are left in place
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestIngestFileRemoveAfterIngest(t *testing.T) {
	t.Cleanup(telemetry.SetupForTesting(t, "test:ingest"))
	engine := &captureEngine{}
	dir := t.TempDir()
	svc := NewService(engine, Options{DropDir: dir, RemoveAfterIngest: true})
	path := writeSnapshot(t, dir, "page.html", gradescopeSnapshot)

	n, err := svc.IngestFile(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestScanAll(t *testing.T) {
	svc, engine, dir := setup(t)
	writeSnapshot(t, dir, "a.html", gradescopeSnapshot)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	writeSnapshot(t, dir, filepath.Join("nested", "b.htm"), prairielearnSnapshot)
	writeSnapshot(t, dir, "notes.txt", "not a snapshot")

	require.NoError(t, svc.ScanAll(context.Background()))
	require.Len(t, engine.batches, 2)
}

func TestDetectSiteFilenameFallback(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body><table><tbody><tr><td>x</td></tr></tbody></table></body></html>"))
	require.NoError(t, err)

	source, ok := DetectSite(doc, "gradescope-export.html")
	require.True(t, ok)
	require.Equal(t, deadline.SourceGradescope, source)

	_, ok = DetectSite(doc, "plain.html")
	require.False(t, ok)
}

func TestPageURLPrefersSavedFromComment(t *testing.T) {
	raw := []byte(gradescopeSnapshot)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(gradescopeSnapshot))
	require.NoError(t, err)
	require.Equal(t, "https://www.gradescope.com/courses/1234", PageURL(raw, doc))

	raw = []byte(prairielearnSnapshot)
	doc, err = goquery.NewDocumentFromReader(strings.NewReader(prairielearnSnapshot))
	require.NoError(t, err)
	require.Equal(t, "https://us.prairielearn.com/pl/course_instance/42/assessments", PageURL(raw, doc))
}

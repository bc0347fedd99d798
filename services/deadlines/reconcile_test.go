package deadlines

import (
	"fmt"
	"testing"
	"time"

	"dueboard/lib/deadline"

	"github.com/google/go-cmp/cmp"
	random "github.com/mazen160/go-random"
	"github.com/stretchr/testify/require"
)

func mkRecord(id string, due time.Time) deadline.Record {
	return deadline.Record{
		ID:      id,
		Title:   "Homework " + id,
		DueDate: due,
		Course:  "CS 101",
		Link:    "https://example.com/" + id,
		Source:  deadline.SourceGradescope,
	}
}

func TestReconcilePreservesStickyFlags(t *testing.T) {
	due := time.Date(2025, 4, 2, 17, 0, 0, 0, time.UTC)

	stored := mkRecord("a", due)
	stored.Done = true
	stored.NotificationSent = true
	stored.Title = "old title"

	fresh := mkRecord("a", due.Add(24*time.Hour))
	fresh.Title = "new title"

	out := Reconcile([]deadline.Record{stored}, []deadline.Record{fresh})
	require.Len(t, out, 1)

	require.Equal(t, "new title", out[0].Title)
	require.Equal(t, due.Add(24*time.Hour), out[0].DueDate)
	require.True(t, out[0].Done)
	require.True(t, out[0].NotificationSent)
}

func TestReconcileKeepsUnmentionedRecords(t *testing.T) {
	due := time.Date(2025, 4, 2, 17, 0, 0, 0, time.UTC)

	existing := []deadline.Record{mkRecord("a", due), mkRecord("b", due.Add(time.Hour))}
	incoming := []deadline.Record{mkRecord("b", due.Add(2*time.Hour))}

	out := Reconcile(existing, incoming)
	require.Len(t, out, 2)
	require.Equal(t, "a", out[0].ID)
	require.Equal(t, "b", out[1].ID)
	require.Equal(t, due.Add(2*time.Hour), out[1].DueDate)
}

func TestReconcileIdempotent(t *testing.T) {
	base := time.Date(2025, 9, 1, 23, 59, 59, 0, time.UTC)

	var batch []deadline.Record
	for i := 0; i < 20; i++ {
		suffix, err := random.String(6)
		require.NoError(t, err)
		offset, err := random.IntRange(0, 72)
		require.NoError(t, err)
		batch = append(batch, mkRecord(fmt.Sprintf("r-%d-%s", i, suffix), base.Add(time.Duration(offset)*time.Hour)))
	}

	once := Reconcile(nil, batch)
	twice := Reconcile(once, batch)
	require.Empty(t, cmp.Diff(once, twice))

	for i := 1; i < len(twice); i++ {
		require.False(t, twice[i].DueDate.Before(twice[i-1].DueDate))
	}
}

// Walks a scrape / complete / re-scrape / second-site scrape sequence and
// checks each intermediate collection state.
func TestReconcileLifecycle(t *testing.T) {
	due := time.Date(2025, 10, 6, 23, 59, 0, 0, time.UTC)

	first := []deadline.Record{mkRecord("hw1", due), mkRecord("hw2", due.Add(48*time.Hour))}
	items := Reconcile(nil, first)
	require.Len(t, items, 2)

	// user completes hw1
	items[0].Done = true

	// identical re-scrape keeps the done flag
	items = Reconcile(items, first)
	require.Len(t, items, 2)
	require.True(t, items[0].Done)
	require.False(t, items[1].Done)

	// another site's batch merges in without disturbing the first
	pl := deadline.Record{
		ID:      "quiz3",
		Title:   "Quiz 3",
		DueDate: due.Add(24 * time.Hour),
		Course:  "CS 374",
		Link:    "https://example.com/quiz3",
		Source:  deadline.SourcePrairieLearn,
	}
	items = Reconcile(items, []deadline.Record{pl})
	require.Len(t, items, 3)
	require.Equal(t, []string{"hw1", "quiz3", "hw2"}, []string{items[0].ID, items[1].ID, items[2].ID})
	require.True(t, items[0].Done)
}

package deadline

import (
	"encoding/json"
	"testing"
	"time"

	"dueboard/lib/timezone"

	"github.com/stretchr/testify/require"
)

func TestRecordJSONSchema(t *testing.T) {
	due := time.Date(2025, time.December, 25, 23, 59, 59, 0, timezone.Location)
	r := Record{
		ID:      "gradescope-https-example-com-courses-1-assignments-2",
		Title:   "HW1",
		DueDate: due,
		Course:  "CS 101",
		Link:    "https://example.com/courses/1/assignments/2",
		Source:  SourceGradescope,
		Done:    true,
	}

	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}

	var fields map[string]any
	err = json.Unmarshal(raw, &fields)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, float64(due.UnixMilli()), fields["dueDate"])
	require.Equal(t, "gradescope", fields["source"])
	require.Equal(t, true, fields["done"])
	require.Equal(t, false, fields["notificationSent"])

	var back Record
	err = json.Unmarshal(raw, &back)
	if err != nil {
		t.Fatal(err)
	}
	require.True(t, back.DueDate.Equal(due))
	require.Equal(t, r.ID, back.ID)
}

func TestValidateRejectsMissingDueDate(t *testing.T) {
	for _, raw := range []string{
		`{"id": "x", "title": "HW 1", "dueDate": 0, "course": "CS 101", "link": "https://example.com/x", "source": "gradescope"}`,
		`{"id": "x", "title": "HW 1", "course": "CS 101", "link": "https://example.com/x", "source": "gradescope"}`,
	} {
		var r Record
		require.NoError(t, json.Unmarshal([]byte(raw), &r))
		require.Error(t, r.Validate(), raw)
	}

	// a genuine instant still passes
	r := Record{
		ID:      "x",
		Title:   "HW 1",
		DueDate: time.Date(2025, time.April, 2, 17, 0, 0, 0, timezone.Location),
	}
	require.NoError(t, r.Validate())
}

func TestBadgeCountBoundary(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, timezone.Location)

	items := []Record{
		{ID: "a", Title: "inside", DueDate: now.Add(23*time.Hour + 59*time.Minute + 59*time.Second)},
		{ID: "b", Title: "outside", DueDate: now.Add(24*time.Hour + time.Second)},
		{ID: "c", Title: "past", DueDate: now.Add(-time.Minute)},
		{ID: "d", Title: "exactly now", DueDate: now},
	}

	require.Equal(t, 2, BadgeCount(items, now))
	require.Equal(t, 0, BadgeCount(nil, now))
}

func TestSortByDueDeterministic(t *testing.T) {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, timezone.Location)
	items := []Record{
		{ID: "b", DueDate: base},
		{ID: "a", DueDate: base},
		{ID: "c", DueDate: base.Add(-time.Hour)},
	}
	SortByDue(items)
	require.Equal(t, "c", items[0].ID)
	require.Equal(t, "a", items[1].ID)
	require.Equal(t, "b", items[2].ID)
}

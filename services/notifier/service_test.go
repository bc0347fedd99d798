package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"dueboard/lib/deadline"
	"dueboard/lib/testutil"
	"dueboard/services/deadlines"
	"dueboard/services/deadlines/db"

	"github.com/stretchr/testify/require"
)

type fakeDelivery struct {
	sent    []string
	bodies  map[string]string
	failIDs map[string]bool
}

func newFakeDelivery() *fakeDelivery {
	return &fakeDelivery{bodies: map[string]string{}, failIDs: map[string]bool{}}
}

func (f *fakeDelivery) Notify(ctx context.Context, id string, title string, body string) error {
	if f.failIDs[id] {
		return errors.New("delivery refused")
	}
	f.sent = append(f.sent, id)
	f.bodies[id] = body
	return nil
}

func record(id string, due time.Time) deadline.Record {
	return deadline.Record{
		ID:      id,
		Title:   "Homework " + id,
		DueDate: due,
		Course:  "CS 101",
		Link:    "https://example.com/" + id,
		Source:  deadline.SourceGradescope,
	}
}

func setupEngine(t *testing.T) *deadlines.Service {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "notifier",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)
	return deadlines.NewService(deadlines.NewSqliteStore(result.DB), deadlines.Options{})
}

func TestRunOnceWindowSelection(t *testing.T) {
	engine := setupEngine(t)
	delivery := newFakeDelivery()
	svc := NewService(engine, delivery, Options{})
	ctx := context.Background()

	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, engine.Ingest(ctx, []deadline.Record{
		record("inside", now.Add(6*time.Hour)),
		record("boundary", now.Add(24*time.Hour)),
		record("outside", now.Add(25*time.Hour)),
		record("past", now.Add(-time.Hour)),
	}))

	require.NoError(t, svc.RunOnce(ctx, now))
	require.ElementsMatch(t, []string{"inside", "boundary"}, delivery.sent)

	col, err := engine.GetData(ctx)
	require.NoError(t, err)
	flags := map[string]bool{}
	for _, r := range col.Items {
		flags[r.ID] = r.NotificationSent
	}
	require.True(t, flags["inside"])
	require.True(t, flags["boundary"])
	require.False(t, flags["outside"])
	require.False(t, flags["past"])
}

func TestRunOnceNoRepeat(t *testing.T) {
	engine := setupEngine(t)
	delivery := newFakeDelivery()
	svc := NewService(engine, delivery, Options{})
	ctx := context.Background()

	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, engine.Ingest(ctx, []deadline.Record{record("a", now.Add(6*time.Hour))}))

	require.NoError(t, svc.RunOnce(ctx, now))
	require.Len(t, delivery.sent, 1)

	// widen the window; the already-handled record stays quiet
	hours := 168.0
	_, err := engine.UpdateSettings(ctx, deadlines.SettingsPatch{NotificationHours: &hours})
	require.NoError(t, err)

	require.NoError(t, svc.RunOnce(ctx, now.Add(30*time.Minute)))
	require.Len(t, delivery.sent, 1)
}

func TestRunOnceDisabled(t *testing.T) {
	engine := setupEngine(t)
	delivery := newFakeDelivery()
	svc := NewService(engine, delivery, Options{})
	ctx := context.Background()

	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, engine.Ingest(ctx, []deadline.Record{record("a", now.Add(time.Hour))}))

	enabled := false
	_, err := engine.UpdateSettings(ctx, deadlines.SettingsPatch{NotificationsEnabled: &enabled})
	require.NoError(t, err)

	require.NoError(t, svc.RunOnce(ctx, now))
	require.Empty(t, delivery.sent)
}

func TestRunOnceFailedDeliveryStillHandled(t *testing.T) {
	engine := setupEngine(t)
	delivery := newFakeDelivery()
	delivery.failIDs["bad"] = true
	svc := NewService(engine, delivery, Options{})
	ctx := context.Background()

	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, engine.Ingest(ctx, []deadline.Record{
		record("bad", now.Add(time.Hour)),
		record("good", now.Add(2*time.Hour)),
	}))

	require.NoError(t, svc.RunOnce(ctx, now))
	require.Equal(t, []string{"good"}, delivery.sent)

	col, err := engine.GetData(ctx)
	require.NoError(t, err)
	for _, r := range col.Items {
		require.True(t, r.NotificationSent, r.ID)
	}
}

func TestComposeBody(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		due  time.Time
		want string
	}{
		{now.Add(72 * time.Hour), "CS 101 is due in 3 days"},
		{now.Add(24 * time.Hour), "CS 101 is due in 1 day"},
		{now.Add(5 * time.Hour), "CS 101 is due in 5 hours"},
		{now.Add(time.Hour), "CS 101 is due in 1 hour"},
		{now.Add(10 * time.Minute), "CS 101 is due soon"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, ComposeBody(record("x", c.due), now))
	}
}

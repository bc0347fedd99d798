package deadlines

import (
	"context"
	"testing"
	"time"

	"dueboard/lib/deadline"
	"dueboard/lib/testutil"
	"dueboard/services/deadlines/db"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testStoreRoundtrip(t *testing.T, store Store) {
	ctx := context.Background()

	// empty store yields the default document
	col, err := store.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, col.Items)
	require.Equal(t, deadline.DefaultSettings(), col.Settings)

	due := time.Date(2025, 4, 2, 17, 0, 0, 0, time.UTC)
	col.Items = []deadline.Record{mkRecord("a", due)}
	col.Items[0].Done = true
	col.Settings.NotificationHours = 48
	require.NoError(t, store.Save(ctx, col))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, col.Items[0].ID, got.Items[0].ID)
	require.Equal(t, due.UnixMilli(), got.Items[0].DueDate.UnixMilli())
	require.True(t, got.Items[0].Done)
	require.Equal(t, col.Settings, got.Settings)

	// overwrite replaces the whole document
	col.Items = []deadline.Record{}
	require.NoError(t, store.Save(ctx, col))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, got.Items)
	require.Empty(t, cmp.Diff(col.Settings, got.Settings))
}

func TestSqliteStoreRoundtrip(t *testing.T) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "deadlines",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)

	testStoreRoundtrip(t, NewSqliteStore(result.DB))
}

func TestBadgerStoreRoundtrip(t *testing.T) {
	store, err := NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	testStoreRoundtrip(t, store)
}

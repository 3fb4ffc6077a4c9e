package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/linkguard/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func TestStore_SaveAndRecent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Ping(ctx))

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for i := range 3 {
		d := &database.Deletion{
			ChatID:    -100,
			MessageID: i + 1,
			UserID:    42,
			Username:  "spammer",
			URL:       "http://evil.com/x",
			DeletedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.SaveDeletion(ctx, d))
		assert.NotZero(t, d.ID)
	}
	require.NoError(t, store.SaveDeletion(ctx, &database.Deletion{ChatID: -200, MessageID: 9, URL: "http://other.com"}))

	recent, err := store.RecentDeletions(ctx, -100, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 3, recent[0].MessageID)
	assert.Equal(t, 2, recent[1].MessageID)
	assert.Equal(t, "http://evil.com/x", recent[0].URL)
	assert.True(t, recent[0].DeletedAt.Equal(base.Add(2*time.Minute)))
}

func TestStore_SaveValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	assert.Error(t, store.SaveDeletion(ctx, nil))
	assert.Error(t, store.SaveDeletion(ctx, &database.Deletion{MessageID: 1}))
	assert.Error(t, store.SaveDeletion(ctx, &database.Deletion{ChatID: 1}))

	_, err := store.RecentDeletions(ctx, 0, 10)
	assert.Error(t, err)
}

func TestStore_CountAndPrune(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	ages := []time.Duration{1 * time.Hour, 30 * time.Hour, 40 * 24 * time.Hour}
	for i, age := range ages {
		require.NoError(t, store.SaveDeletion(ctx, &database.Deletion{
			ChatID:    -100,
			MessageID: i + 1,
			URL:       "http://evil.com",
			DeletedAt: now.Add(-age),
		}))
	}

	count, err := store.CountDeletionsSince(ctx, -100, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	pruned, err := store.PruneDeletionsBefore(ctx, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)

	count, err = store.CountDeletionsSince(ctx, -100, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.RunSQLMaintenance(ctx))
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bot.db", database.ExtractDBNameFromPath("file:bot.db?_pragma=busy_timeout(5000)"))
	assert.Equal(t, "/var/lib/my bot.db", database.ExtractDBNameFromPath("/var/lib/my%20bot.db"))
	assert.Equal(t, "/var/lib/linkguard/audit.db", database.ExtractDBNameFromPath("/var/lib/linkguard/audit.db"))
}

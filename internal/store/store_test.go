package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func summary(id, itemType, subreddit string) models.ExportedItem {
	return models.ExportedItem{
		ID:        id,
		Title:     "Title " + id,
		Subreddit: subreddit,
		Author:    "author",
		Score:     10,
		Created:   time.Date(2020, 1, 2, 12, 30, 0, 0, time.UTC),
		Permalink: "https://www.reddit.com/" + id,
		Type:      itemType,
	}
}

func TestRecordAndCheckExport(t *testing.T) {
	db := openTestDB(t)

	exported, err := db.ItemExported("p1")
	require.NoError(t, err)
	assert.False(t, exported)

	require.NoError(t, db.RecordExport(summary("p1", "post", "golang"), models.OriginSaved, "Title p1-p1.md"))

	exported, err = db.ItemExported("p1")
	require.NoError(t, err)
	assert.True(t, exported)
}

func TestRecordExportIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.RecordExport(summary("p1", "post", "golang"), models.OriginSaved, "a.md"))
	require.NoError(t, db.RecordExport(summary("p1", "post", "golang"), models.OriginSaved, "a.md"))

	items, err := db.ListExported()
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestListExported(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.RecordExport(summary("p1", "post", "golang"), models.OriginSaved, "a.md"))
	require.NoError(t, db.RecordExport(summary("c1", "comment", "rust"), models.OriginUpvoted, "b.md"))

	items, err := db.ListExported()
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.RecordExport(summary("p1", "post", "golang"), models.OriginSaved, "a.md"))
	require.NoError(t, db.RecordExport(summary("p2", "post", "golang"), models.OriginSaved, "b.md"))
	require.NoError(t, db.RecordExport(summary("c1", "comment", "rust"), models.OriginSaved, "c.md"))

	stats, err := db.GetStats()
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalItems)
	assert.Equal(t, 2, stats.ByType["post"])
	assert.Equal(t, 1, stats.ByType["comment"])
	assert.Equal(t, 2, stats.TopSubreddits["golang"])
}

package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/perpetuallyhorni/posterwall/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDB_AddAndQuery(t *testing.T) {
	db := openTestDB(t)

	exists, err := db.DownloadExists("a.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	require.NoError(t, db.AddDownload(storage.DownloadRecord{
		Filename: "a.jpg", PosterID: 1, Title: "A", SourceURL: "https://r/a.jpg", SHA256: "aa", Path: "/d/a.jpg", DownloadedAt: older,
	}))
	require.NoError(t, db.AddDownload(storage.DownloadRecord{
		Filename: "b.jpg", PosterID: 2, Title: "B", SourceURL: "https://r/b.jpg", SHA256: "bb", Path: "/d/b.jpg", DownloadedAt: newer,
	}))

	exists, err = db.DownloadExists("a.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	recs, err := db.ListDownloads()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b.jpg", recs[0].Filename)
	assert.Equal(t, "a.jpg", recs[1].Filename)
	assert.True(t, recs[1].DownloadedAt.Equal(older))

	rec, err := db.GetDownload("b.jpg")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.PosterID)
	assert.Equal(t, "bb", rec.SHA256)

	missing, err := db.GetDownload("zzz.jpg")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDB_UpsertReplaces(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AddDownload(storage.DownloadRecord{Filename: "a.jpg", SourceURL: "u", SHA256: "old", Path: "p"}))
	require.NoError(t, db.AddDownload(storage.DownloadRecord{Filename: "a.jpg", SourceURL: "u", SHA256: "new", Path: "p"}))

	recs, err := db.ListDownloads()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "new", recs[0].SHA256)
	assert.False(t, recs[0].DownloadedAt.IsZero())
}

func TestDB_Delete(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AddDownload(storage.DownloadRecord{Filename: "a.jpg", SourceURL: "u", SHA256: "s", Path: "p"}))
	require.NoError(t, db.DeleteDownload("a.jpg"))

	exists, err := db.DownloadExists("a.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDB_RejectsEmptyFilename(t *testing.T) {
	db := openTestDB(t)
	assert.Error(t, db.AddDownload(storage.DownloadRecord{}))
}

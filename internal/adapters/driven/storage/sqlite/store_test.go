package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func testRecord(filename, doi string, date time.Time) domain.PaperMetadata {
	return domain.PaperMetadata{
		OriginalFilename: filename,
		OriginalURL:      "https://example.com/" + filename,
		NumChunks:        3,
		ProcessingDate:   date,
		Title:            "Some_Title",
		SourceTitle:      "Some Title",
		DOI:              doi,
		SummaryPath:      "paperboi_summaries/Some_Title_20240102_030405.txt",
	}
}

// ==================== Store Creation Tests ====================

func TestNewStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "metadata")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DBFileName), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_EmptyDir(t *testing.T) {
	_, err := NewStore("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewStore_RecordsMigrations(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	date := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.MetadataStore().Upsert(ctx, testRecord("a.pdf", "", date)))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.MetadataStore().Get(ctx, "a.pdf")
	require.NoError(t, err)
	assert.True(t, date.Equal(got.ProcessingDate))

	var applied int
	require.NoError(t, reopened.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied)
}

// ==================== Metadata Store Tests ====================

func TestMetadataStore_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	ms := setupTestStore(t).MetadataStore()
	date := time.Date(2024, 1, 2, 3, 4, 5, 123456789, time.UTC)

	record := testRecord("paper_20240102_030405.pdf", "10.1000/xyz", date)
	require.NoError(t, ms.Upsert(ctx, record))

	got, err := ms.Get(ctx, "10.1000/xyz")
	require.NoError(t, err)
	assert.Equal(t, record.OriginalFilename, got.OriginalFilename)
	assert.Equal(t, record.OriginalURL, got.OriginalURL)
	assert.Equal(t, record.NumChunks, got.NumChunks)
	assert.True(t, record.ProcessingDate.Equal(got.ProcessingDate))
	assert.Equal(t, record.Title, got.Title)
	assert.Equal(t, record.SourceTitle, got.SourceTitle)
	assert.Equal(t, record.DOI, got.DOI)
	assert.Equal(t, record.SummaryPath, got.SummaryPath)
}

func TestMetadataStore_Get_NotFound(t *testing.T) {
	ms := setupTestStore(t).MetadataStore()

	got, err := ms.Get(context.Background(), "missing")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMetadataStore_Upsert_Overwrites(t *testing.T) {
	ctx := context.Background()
	ms := setupTestStore(t).MetadataStore()
	date := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, ms.Upsert(ctx, testRecord("first.pdf", "10.1000/same", date)))
	second := testRecord("second.pdf", "10.1000/same", date.Add(time.Hour))
	second.NumChunks = 9
	require.NoError(t, ms.Upsert(ctx, second))

	all, err := ms.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "second.pdf", all["10.1000/same"].OriginalFilename)
	assert.Equal(t, 9, all["10.1000/same"].NumChunks)
}

func TestMetadataStore_Upsert_NoKey(t *testing.T) {
	ms := setupTestStore(t).MetadataStore()

	err := ms.Upsert(context.Background(), domain.PaperMetadata{Title: "x"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMetadataStore_ListAll(t *testing.T) {
	ctx := context.Background()
	ms := setupTestStore(t).MetadataStore()
	date := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	empty, err := ms.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, ms.Upsert(ctx, testRecord("a.pdf", "", date)))
	require.NoError(t, ms.Upsert(ctx, testRecord("b.pdf", "10.1000/b", date)))

	all, err := ms.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Contains(t, all, "a.pdf")
	assert.Contains(t, all, "10.1000/b")
}

package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

func TestMetadataStore_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMetadataStore()

	rec := domain.PaperMetadata{
		OriginalFilename: "paper_20240101_120000.pdf",
		DOI:              "10.1234/abc",
		Title:            "First",
		ProcessingDate:   time.Now(),
	}
	require.NoError(t, store.Upsert(ctx, rec))

	got, err := store.Get(ctx, "10.1234/abc")
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)

	rec.Title = "Second"
	require.NoError(t, store.Upsert(ctx, rec))
	assert.Equal(t, 1, store.Len(), "upsert by the same key replaces")

	got, err = store.Get(ctx, "10.1234/abc")
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Title)
}

func TestMetadataStore_GetNotFound(t *testing.T) {
	_, err := NewMetadataStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMetadataStore_ListAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMetadataStore()
	require.NoError(t, store.Upsert(ctx, domain.PaperMetadata{OriginalFilename: "a.pdf"}))

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	delete(all, "a.pdf")

	assert.Equal(t, 1, store.Len())
}

func TestMetadataStore_FailWith(t *testing.T) {
	ctx := context.Background()
	store := NewMetadataStore()
	boom := errors.New("disk full")

	store.FailWith(boom)
	assert.ErrorIs(t, store.Upsert(ctx, domain.PaperMetadata{OriginalFilename: "a.pdf"}), boom)
	_, err := store.ListAll(ctx)
	assert.ErrorIs(t, err, boom)

	store.FailWith(nil)
	assert.NoError(t, store.Upsert(ctx, domain.PaperMetadata{OriginalFilename: "a.pdf"}))
}

func TestMetadataStore_ConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	store := NewMetadataStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Upsert(ctx, domain.PaperMetadata{OriginalFilename: time.Duration(i).String()})
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, store.Len())
}

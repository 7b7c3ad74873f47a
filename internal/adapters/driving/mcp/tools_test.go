package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

func sampleRecords() []domain.PaperMetadata {
	date := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return []domain.PaperMetadata{
		{
			OriginalFilename: "paper_20240102_030405.pdf",
			OriginalURL:      "https://arxiv.org/abs/1706.03762",
			NumChunks:        4,
			ProcessingDate:   date,
			Title:            "Attention_Is_All_You_Need",
			SourceTitle:      "Attention Is All You Need",
			DOI:              "10.5555/3295222.3295349",
			SummaryPath:      "paperboi_summaries/Attention_Is_All_You_Need_20240102_030405.txt",
		},
		{
			OriginalFilename: "paper_20240101_000000.pdf",
			OriginalURL:      "https://example.com/old.pdf",
			NumChunks:        1,
			ProcessingDate:   date.Add(-27 * time.Hour),
			Title:            "untitled",
			SummaryPath:      "paperboi_summaries/untitled_20240101_000000.txt",
		},
	}
}

func TestServer_handleProcessPaper(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the record", func(t *testing.T) {
		records := sampleRecords()
		mock := &mockPaperService{record: &records[0]}
		server, err := NewServer(&Ports{Paper: mock})
		require.NoError(t, err)

		_, output, err := server.handleProcessPaper(ctx, nil, ProcessPaperInput{URL: "https://arxiv.org/abs/1706.03762"})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://arxiv.org/abs/1706.03762"}, mock.urls)
		assert.Equal(t, "10.5555/3295222.3295349", output.Key)
		assert.Equal(t, "Attention_Is_All_You_Need", output.Title)
		assert.Equal(t, 4, output.NumChunks)
		assert.Equal(t, "2024-01-02T03:04:05Z", output.ProcessingDate)
	})

	t.Run("requires a url", func(t *testing.T) {
		mock := &mockPaperService{}
		server, err := NewServer(&Ports{Paper: mock})
		require.NoError(t, err)

		_, _, err = server.handleProcessPaper(ctx, nil, ProcessPaperInput{})

		require.Error(t, err)
		assert.Empty(t, mock.urls)
	})

	t.Run("passes pipeline errors through", func(t *testing.T) {
		pipelineErr := domain.NewPipelineError(domain.ErrBackend, "synthesize",
			&domain.RunError{RunID: "run_1", Status: domain.RunFailed})
		server, err := NewServer(&Ports{Paper: &mockPaperService{err: pipelineErr}})
		require.NoError(t, err)

		_, _, err = server.handleProcessPaper(ctx, nil, ProcessPaperInput{URL: "https://example.com/p.pdf"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrBackend)
		assert.Contains(t, err.Error(), "failed")
	})
}

func TestServer_handleListPapers(t *testing.T) {
	ctx := context.Background()

	t.Run("lists every paper", func(t *testing.T) {
		server, err := NewServer(&Ports{Paper: &mockPaperService{records: sampleRecords()}})
		require.NoError(t, err)

		_, output, err := server.handleListPapers(ctx, nil, ListPapersInput{})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "10.5555/3295222.3295349", output.Papers[0].Key)
		assert.Equal(t, "paper_20240101_000000.pdf", output.Papers[1].Key)
	})

	t.Run("applies the limit", func(t *testing.T) {
		server, err := NewServer(&Ports{Paper: &mockPaperService{records: sampleRecords()}})
		require.NoError(t, err)

		_, output, err := server.handleListPapers(ctx, nil, ListPapersInput{Limit: 1})

		require.NoError(t, err)
		require.Len(t, output.Papers, 1)
		assert.Equal(t, 1, output.Count)
	})

	t.Run("empty store", func(t *testing.T) {
		server, err := NewServer(&Ports{Paper: &mockPaperService{}})
		require.NoError(t, err)

		_, output, err := server.handleListPapers(ctx, nil, ListPapersInput{})

		require.NoError(t, err)
		assert.Zero(t, output.Count)
		assert.NotNil(t, output.Papers)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Paper: &mockPaperService{err: errors.New("disk gone")}})
		require.NoError(t, err)

		_, _, err = server.handleListPapers(ctx, nil, ListPapersInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk gone")
	})
}

func TestServer_handleReadSummary(t *testing.T) {
	ctx := context.Background()
	records := sampleRecords()

	t.Run("finds the paper by key", func(t *testing.T) {
		mock := &mockPaperService{
			records:   records,
			summaries: map[string]string{records[1].SummaryPath: "An old summary."},
		}
		server, err := NewServer(&Ports{Paper: mock})
		require.NoError(t, err)

		_, output, err := server.handleReadSummary(ctx, nil, ReadSummaryInput{Key: "paper_20240101_000000.pdf"})

		require.NoError(t, err)
		assert.Equal(t, "An old summary.", output.Summary)
		assert.Equal(t, "untitled", output.Paper.Title)
	})

	t.Run("unknown key", func(t *testing.T) {
		server, err := NewServer(&Ports{Paper: &mockPaperService{records: records}})
		require.NoError(t, err)

		_, _, err = server.handleReadSummary(ctx, nil, ReadSummaryInput{Key: "10.1/none"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("requires a key", func(t *testing.T) {
		server, err := NewServer(&Ports{Paper: &mockPaperService{records: records}})
		require.NoError(t, err)

		_, _, err = server.handleReadSummary(ctx, nil, ReadSummaryInput{})

		assert.Error(t, err)
	})

	t.Run("summary read error", func(t *testing.T) {
		mock := &mockPaperService{records: records, summaryErr: errors.New("disk gone")}
		server, err := NewServer(&Ports{Paper: mock})
		require.NoError(t, err)

		_, _, err = server.handleReadSummary(ctx, nil, ReadSummaryInput{Key: records[0].Key()})

		assert.EqualError(t, err, "disk gone")
	})
}

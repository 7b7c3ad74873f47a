package tui

import (
	"context"
	"sync"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

type mockPaperService struct {
	mu        sync.Mutex
	records   []domain.PaperMetadata
	summaries map[string]string
	processed []string
	err       error
}

func (m *mockPaperService) Process(_ context.Context, url string) (*domain.PaperMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = append(m.processed, url)
	if m.err != nil {
		return nil, m.err
	}
	record := domain.PaperMetadata{OriginalURL: url, Title: "Processed", SummaryPath: "/s/processed.txt"}
	m.records = append([]domain.PaperMetadata{record}, m.records...)
	return &record, nil
}

func (m *mockPaperService) ListProcessed(context.Context) ([]domain.PaperMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.PaperMetadata(nil), m.records...), nil
}

func (m *mockPaperService) ReadSummary(_ context.Context, path string) (string, error) {
	content, ok := m.summaries[path]
	if !ok {
		return "", domain.ErrNotFound
	}
	return content, nil
}

package mcp

import (
	"context"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driving"
)

var _ driving.PaperService = (*mockPaperService)(nil)

// mockPaperService is a mock implementation of driving.PaperService.
type mockPaperService struct {
	record  *domain.PaperMetadata
	records []domain.PaperMetadata
	err     error
	urls    []string

	summaries  map[string]string
	summaryErr error
}

func (m *mockPaperService) Process(_ context.Context, url string) (*domain.PaperMetadata, error) {
	m.urls = append(m.urls, url)
	return m.record, m.err
}

func (m *mockPaperService) ListProcessed(_ context.Context) ([]domain.PaperMetadata, error) {
	return m.records, m.err
}

func (m *mockPaperService) ReadSummary(_ context.Context, path string) (string, error) {
	if m.summaryErr != nil {
		return "", m.summaryErr
	}
	content, ok := m.summaries[path]
	if !ok {
		return "", domain.ErrNotFound
	}
	return content, nil
}

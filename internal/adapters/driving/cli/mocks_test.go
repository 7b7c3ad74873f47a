package cli

import (
	"context"
	"sync"
	"time"

	"github.com/christopherbholland/PaperBoi/internal/adapters/driven/storage/memory"
	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/services"
)

// mockPaperService records processed URLs and fails those listed in failures.
type mockPaperService struct {
	mu       sync.Mutex
	urls     []string
	failures map[string]error
	records  []domain.PaperMetadata
	listErr  error
}

func (m *mockPaperService) Process(_ context.Context, url string) (*domain.PaperMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.urls = append(m.urls, url)
	if err, ok := m.failures[url]; ok {
		return nil, err
	}
	return &domain.PaperMetadata{
		OriginalFilename: "paper_20240102_030405.pdf",
		OriginalURL:      url,
		NumChunks:        3,
		ProcessingDate:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Title:            "Attention_Is_All_You_Need",
		SourceTitle:      "Attention Is All You Need",
		DOI:              "10.5555/3295222.3295349",
		SummaryPath:      "/data/paperboi_summaries/Attention_Is_All_You_Need_20240102_030405.txt",
	}, nil
}

func (m *mockPaperService) ListProcessed(_ context.Context) ([]domain.PaperMetadata, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.records, nil
}

func (m *mockPaperService) ReadSummary(_ context.Context, path string) (string, error) {
	if path == "" {
		return "", domain.ErrNotFound
	}
	return "Summary of " + path, nil
}

func (m *mockPaperService) processed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.urls...)
}

// setupTestServices installs a mock paper service and an in-memory settings
// service, and returns a func restoring the previous state.
func setupTestServices() (*mockPaperService, *services.SettingsService, func()) {
	oldPaper, oldFactory := paperService, paperServiceFactory
	oldSettings, oldLogger, oldInbox := settingsService, appLogger, inboxDir
	oldTerminal := stdinIsTerminal

	papers := &mockPaperService{}
	settings := services.NewSettingsService(memory.NewConfigStore())

	SetServices(Services{Paper: papers, Settings: settings})
	stdinIsTerminal = func() bool { return false }

	return papers, settings, func() {
		paperService, paperServiceFactory = oldPaper, oldFactory
		settingsService, appLogger, inboxDir = oldSettings, oldLogger, oldInbox
		stdinIsTerminal = oldTerminal
		processJSON, listJSON, listLimit = false, false, 0
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetErr(nil)
	}
}

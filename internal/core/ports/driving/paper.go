package driving

import (
	"context"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

// PaperService runs the summarisation pipeline.
type PaperService interface {
	// Process downloads, summarises and records the paper at url.
	// Failures are *domain.PipelineError values tagged with their stage.
	Process(ctx context.Context, url string) (*domain.PaperMetadata, error)

	// ListProcessed returns every recorded paper, newest first.
	ListProcessed(ctx context.Context) ([]domain.PaperMetadata, error)

	// ReadSummary returns the summary text stored at a record's SummaryPath.
	ReadSummary(ctx context.Context, summaryPath string) (string, error)
}

package driven

import (
	"context"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

// SummaryStore persists summary text.
type SummaryStore interface {
	// WriteSummary stores content under name and returns the stored path.
	WriteSummary(ctx context.Context, name, content string) (string, error)

	// ReadSummary returns the content stored at a path WriteSummary returned.
	// Returns domain.ErrNotFound if nothing is stored there.
	ReadSummary(ctx context.Context, path string) (string, error)
}

// MetadataStore persists metadata records.
// Implementations must serialise concurrent upserts.
type MetadataStore interface {
	// Upsert stores a record under record.Key(), replacing any existing one.
	Upsert(ctx context.Context, record domain.PaperMetadata) error

	// Get retrieves a record by key.
	// Returns domain.ErrNotFound if no record exists.
	Get(ctx context.Context, key string) (*domain.PaperMetadata, error)

	// ListAll returns every record keyed by record.Key().
	ListAll(ctx context.Context) (map[string]domain.PaperMetadata, error)
}

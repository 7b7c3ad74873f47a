package driven

import (
	"context"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

// Segmenter splits document text into ordered, size-bounded fragments.
type Segmenter interface {
	// Name returns the segmenter name for logging and configuration.
	Name() string

	// Process returns fragments with ordinals starting at 1.
	// Empty text yields no fragments and no error.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Fragment, error)
}

package driven

import (
	"context"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

// Retriever turns a user-supplied URL into a local PDF file.
type Retriever interface {
	// Resolve normalises and validates a URL, returning the URL that
	// serves the PDF. Failures wrap domain.ErrValidation or domain.ErrRetrieval.
	Resolve(ctx context.Context, rawURL string) (string, error)

	// Fetch downloads a resolved URL to local storage.
	Fetch(ctx context.Context, url string) (*domain.SourceFile, error)
}

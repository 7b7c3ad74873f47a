package driven

import (
	"context"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

// TextExtractor extracts plain text from a PDF on disk.
// An empty Document.Text signals a non-text or scanned source.
type TextExtractor interface {
	// Name returns the extractor name for logging and configuration.
	Name() string

	// Extract reads the file at path and returns its text.
	Extract(ctx context.Context, path string) (*domain.Document, error)
}

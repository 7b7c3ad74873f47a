package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
)

// Ensure SummaryStore implements the interface.
var _ driven.SummaryStore = (*SummaryStore)(nil)

// SummaryStore writes summaries as UTF-8 text files in a directory.
type SummaryStore struct {
	dir string
}

// NewSummaryStore creates a summary store rooted at dir.
func NewSummaryStore(dir string) *SummaryStore {
	return &SummaryStore{dir: dir}
}

// Dir returns the directory summaries are written to.
func (s *SummaryStore) Dir() string {
	return s.dir
}

// WriteSummary writes content to dir/name and returns the path.
func (s *SummaryStore) WriteSummary(ctx context.Context, name, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: summary name %q", domain.ErrInvalidInput, name)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating summaries directory: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}
	return path, nil
}

// ReadSummary reads a summary written by this store. Paths outside the
// store's directory are rejected.
func (s *SummaryStore) ReadSummary(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if filepath.Dir(filepath.Clean(path)) != filepath.Clean(s.dir) {
		return "", fmt.Errorf("%w: %s is not in %s", domain.ErrInvalidInput, path, s.dir)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return "", fmt.Errorf("reading summary: %w", err)
	}
	return string(data), nil
}

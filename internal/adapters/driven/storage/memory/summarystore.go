package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
)

const pathPrefix = "memory://"

// Ensure SummaryStore implements the interface.
var _ driven.SummaryStore = (*SummaryStore)(nil)

// SummaryStore keeps summaries in a map keyed by name.
type SummaryStore struct {
	mu        sync.RWMutex
	summaries map[string]string
	err       error
}

// NewSummaryStore creates an empty summary store.
func NewSummaryStore() *SummaryStore {
	return &SummaryStore{summaries: make(map[string]string)}
}

// FailWith makes every subsequent write return err. Pass nil to recover.
func (s *SummaryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// WriteSummary stores content and returns a memory:// path.
func (s *SummaryStore) WriteSummary(_ context.Context, name, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.summaries[name] = content
	return pathPrefix + name, nil
}

// ReadSummary returns the content behind a memory:// path.
func (s *SummaryStore) ReadSummary(_ context.Context, path string) (string, error) {
	name, ok := strings.CutPrefix(path, pathPrefix)
	if !ok {
		return "", domain.ErrNotFound
	}
	c, ok := s.Summary(name)
	if !ok {
		return "", domain.ErrNotFound
	}
	return c, nil
}

// Summary returns the content stored under name.
func (s *SummaryStore) Summary(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.summaries[name]
	return c, ok
}

// Len returns the number of stored summaries.
func (s *SummaryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.summaries)
}

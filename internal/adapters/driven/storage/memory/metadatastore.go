package memory

import (
	"context"
	"sync"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
)

// Ensure MetadataStore implements the interface.
var _ driven.MetadataStore = (*MetadataStore)(nil)

// MetadataStore keeps metadata records in a map keyed by record.Key().
type MetadataStore struct {
	mu      sync.RWMutex
	records map[string]domain.PaperMetadata
	err     error
}

// NewMetadataStore creates an empty metadata store.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{records: make(map[string]domain.PaperMetadata)}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (s *MetadataStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Upsert stores record under its key.
func (s *MetadataStore) Upsert(_ context.Context, record domain.PaperMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records[record.Key()] = record
	return nil
}

// Get retrieves a record by key.
func (s *MetadataStore) Get(_ context.Context, key string) (*domain.PaperMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	r, ok := s.records[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

// ListAll returns a copy of every record.
func (s *MetadataStore) ListAll(_ context.Context) (map[string]domain.PaperMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]domain.PaperMetadata, len(s.records))
	for k, v := range s.records {
		out[k] = v
	}
	return out, nil
}

// Len returns the number of stored records.
func (s *MetadataStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
)

// Ensure MetadataStore implements the interface.
var _ driven.MetadataStore = (*MetadataStore)(nil)

// MasterFileName is the JSON file holding every record.
const MasterFileName = "all_papers.json"

// MetadataStore keeps paper records in JSON files under a directory.
type MetadataStore struct {
	dir string
	mu  sync.Mutex
}

// NewMetadataStore creates a metadata store rooted at dir.
func NewMetadataStore(dir string) *MetadataStore {
	return &MetadataStore{dir: dir}
}

// Path returns the master file path.
func (s *MetadataStore) Path() string {
	return filepath.Join(s.dir, MasterFileName)
}

// RunFileName returns the per-run snapshot name for record, derived from
// its processing date with colons replaced by dashes.
func RunFileName(record domain.PaperMetadata) string {
	stamp := record.ProcessingDate.Format("2006-01-02T15:04:05.000000")
	return "metadata_" + strings.ReplaceAll(stamp, ":", "-") + ".json"
}

// Upsert replaces the record in the master file, then writes the per-run
// snapshot. Nothing is written when the master file cannot be parsed.
func (s *MetadataStore) Upsert(ctx context.Context, record domain.PaperMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := record.Key()
	if key == "" {
		return fmt.Errorf("%w: record has neither DOI nor filename", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}

	all, err := s.load()
	if err != nil {
		return err
	}
	all[key] = record

	if err := writeJSON(s.Path(), all); err != nil {
		return fmt.Errorf("writing %s: %w", MasterFileName, err)
	}

	if err := writeJSON(filepath.Join(s.dir, RunFileName(record)), record); err != nil {
		return fmt.Errorf("writing run metadata: %w", err)
	}
	return nil
}

// Get retrieves a record by key.
func (s *MetadataStore) Get(ctx context.Context, key string) (*domain.PaperMetadata, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	r, ok := all[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

// ListAll returns every record in the master file. A missing file is an
// empty store.
func (s *MetadataStore) ListAll(ctx context.Context) (map[string]domain.PaperMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *MetadataStore) load() (map[string]domain.PaperMetadata, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]domain.PaperMetadata), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", MasterFileName, err)
	}

	all := make(map[string]domain.PaperMetadata)
	if len(strings.TrimSpace(string(data))) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", MasterFileName, err)
	}
	return all, nil
}

// writeJSON writes v with four-space indentation via a temp file and rename.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*.json")
	if err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

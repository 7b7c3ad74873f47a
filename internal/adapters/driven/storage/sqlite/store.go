package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/christopherbholland/PaperBoi/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
)

// DBFileName is the database file created in the data directory.
const DBFileName = "papers.db"

// Store is a SQLite-based metadata store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in dataDir.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: empty data directory", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// MetadataStore returns a MetadataStore backed by this store.
func (s *Store) MetadataStore() driven.MetadataStore {
	return &metadataStore{store: s}
}

// migrate runs all pending up migrations and records their versions.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_papers.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, content string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(content); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ==================== Metadata Store ====================

// metadataStore implements driven.MetadataStore.
type metadataStore struct {
	store *Store
}

var _ driven.MetadataStore = (*metadataStore)(nil)

const selectPaper = `
	SELECT key, original_filename, original_url, num_chunks, processing_date,
		title, source_title, doi, summary_path
	FROM papers`

// Upsert stores or replaces a record under its key.
func (s *metadataStore) Upsert(ctx context.Context, record domain.PaperMetadata) error {
	key := record.Key()
	if key == "" {
		return fmt.Errorf("%w: record has neither DOI nor filename", domain.ErrInvalidInput)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO papers (key, original_filename, original_url, num_chunks, processing_date,
			title, source_title, doi, summary_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			original_filename = excluded.original_filename,
			original_url = excluded.original_url,
			num_chunks = excluded.num_chunks,
			processing_date = excluded.processing_date,
			title = excluded.title,
			source_title = excluded.source_title,
			doi = excluded.doi,
			summary_path = excluded.summary_path
	`, key, record.OriginalFilename, record.OriginalURL, record.NumChunks,
		record.ProcessingDate.Format(time.RFC3339Nano),
		record.Title, record.SourceTitle, record.DOI, record.SummaryPath)
	if err != nil {
		return fmt.Errorf("saving paper: %w", err)
	}
	return nil
}

// Get retrieves a record by key.
func (s *metadataStore) Get(ctx context.Context, key string) (*domain.PaperMetadata, error) {
	row := s.store.db.QueryRowContext(ctx, selectPaper+" WHERE key = ?", key)

	_, record, err := scanPaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting paper: %w", err)
	}
	return record, nil
}

// ListAll returns every record keyed by lookup key.
func (s *metadataStore) ListAll(ctx context.Context) (map[string]domain.PaperMetadata, error) {
	rows, err := s.store.db.QueryContext(ctx, selectPaper)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.PaperMetadata)
	for rows.Next() {
		key, record, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		out[key] = *record
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPaper(row scanner) (string, *domain.PaperMetadata, error) {
	var (
		key    string
		date   string
		record domain.PaperMetadata
	)
	if err := row.Scan(&key, &record.OriginalFilename, &record.OriginalURL, &record.NumChunks,
		&date, &record.Title, &record.SourceTitle, &record.DOI, &record.SummaryPath); err != nil {
		return "", nil, err
	}

	t, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return "", nil, fmt.Errorf("parsing processing_date %q: %w", date, err)
	}
	record.ProcessingDate = t
	return key, &record, nil
}

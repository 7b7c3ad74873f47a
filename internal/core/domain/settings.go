package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

const unknownDescription = "Unknown"

// BackendProvider identifies the conversation backend implementation.
type BackendProvider string

// Available conversation backends.
const (
	// BackendOpenAI is the OpenAI Assistants threads API.
	BackendOpenAI BackendProvider = "openai"

	// BackendMemory is an in-process backend that echoes a canned summary.
	BackendMemory BackendProvider = "memory"
)

// IsValid returns true if the provider is recognised.
func (p BackendProvider) IsValid() bool {
	switch p {
	case BackendOpenAI, BackendMemory:
		return true
	default:
		return false
	}
}

// AllBackendProviders returns every supported backend.
func AllBackendProviders() []BackendProvider {
	return []BackendProvider{BackendOpenAI, BackendMemory}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p BackendProvider) RequiresAPIKey() bool {
	return p == BackendOpenAI
}

// String returns the string representation.
func (p BackendProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p BackendProvider) Description() string {
	switch p {
	case BackendOpenAI:
		return "OpenAI Assistants (cloud)"
	case BackendMemory:
		return "In-memory (offline dry run)"
	default:
		return unknownDescription
	}
}

// ExtractorEngine identifies the PDF text extraction implementation.
type ExtractorEngine string

// Available extraction engines.
const (
	// ExtractorNative parses PDFs in-process.
	ExtractorNative ExtractorEngine = "native"

	// ExtractorPdftotext shells out to poppler's pdftotext.
	ExtractorPdftotext ExtractorEngine = "pdftotext"
)

// AllExtractorEngines returns every supported extraction engine.
func AllExtractorEngines() []ExtractorEngine {
	return []ExtractorEngine{ExtractorNative, ExtractorPdftotext}
}

// IsValid returns true if the engine is recognised.
func (e ExtractorEngine) IsValid() bool {
	return e == ExtractorNative || e == ExtractorPdftotext
}

// String returns the string representation.
func (e ExtractorEngine) String() string {
	return string(e)
}

// Description returns a human-readable description of the engine.
func (e ExtractorEngine) Description() string {
	switch e {
	case ExtractorNative:
		return "Native (pure Go)"
	case ExtractorPdftotext:
		return "pdftotext (poppler-utils)"
	default:
		return unknownDescription
	}
}

// StorageBackend identifies where metadata records are kept.
type StorageBackend string

// Available metadata stores.
const (
	// StorageJSON keeps records in metadata/all_papers.json.
	StorageJSON StorageBackend = "json"

	// StorageSQLite keeps records in metadata/papers.db.
	StorageSQLite StorageBackend = "sqlite"
)

// AllStorageBackends returns every supported metadata store.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{StorageJSON, StorageSQLite}
}

// IsValid returns true if the storage backend is recognised.
func (s StorageBackend) IsValid() bool {
	return s == StorageJSON || s == StorageSQLite
}

// String returns the string representation.
func (s StorageBackend) String() string {
	return string(s)
}

// Description returns a human-readable description of the store.
func (s StorageBackend) Description() string {
	switch s {
	case StorageJSON:
		return "JSON files"
	case StorageSQLite:
		return "SQLite database"
	default:
		return unknownDescription
	}
}

// PathSettings holds the on-disk layout root.
type PathSettings struct {
	// BaseDir is the directory holding all output folders.
	BaseDir string
}

// Directory names under BaseDir.
const (
	PapersDirName    = "full_papers"
	SummariesDirName = "paperboi_summaries"
	MetadataDirName  = "metadata"
	LogDirName       = "error_log"
	InboxDirName     = "inbox"
)

// PapersDir is where downloaded PDFs are written.
func (p PathSettings) PapersDir() string { return filepath.Join(p.BaseDir, PapersDirName) }

// SummariesDir is where summary text files are written.
func (p PathSettings) SummariesDir() string { return filepath.Join(p.BaseDir, SummariesDirName) }

// MetadataDir is where metadata records are written.
func (p PathSettings) MetadataDir() string { return filepath.Join(p.BaseDir, MetadataDirName) }

// LogDir is where daily log files are written.
func (p PathSettings) LogDir() string { return filepath.Join(p.BaseDir, LogDirName) }

// InboxDir is the default directory watched for URL files.
func (p PathSettings) InboxDir() string { return filepath.Join(p.BaseDir, InboxDirName) }

// Dirs returns every output directory.
func (p PathSettings) Dirs() []string {
	return []string{p.PapersDir(), p.SummariesDir(), p.MetadataDir(), p.LogDir()}
}

// SegmenterSettings configures fragment sizing.
type SegmenterSettings struct {
	// MaxChars is the fragment size budget in characters.
	MaxChars int
}

// BackendSettings configures the conversation backend.
type BackendSettings struct {
	// Provider selects the backend implementation.
	Provider BackendProvider

	// AssistantID is the assistant that runs synthesis.
	AssistantID string

	// APIKey authenticates against the backend.
	APIKey string

	// BaseURL overrides the API endpoint. Empty uses the provider default.
	BaseURL string

	// PollInterval is the wait between run status polls.
	PollInterval time.Duration

	// RequestsPerSecond caps the request rate. Zero disables the limiter.
	RequestsPerSecond int
}

// ExtractorSettings configures text extraction.
type ExtractorSettings struct {
	// Engine selects the extractor implementation.
	Engine ExtractorEngine

	// MinTextLength is the trimmed length below which a source is
	// treated as scanned or unreadable.
	MinTextLength int
}

// StorageSettings configures metadata persistence.
type StorageSettings struct {
	// Backend selects the metadata store.
	Backend StorageBackend
}

// TitleSettings configures title extraction.
type TitleSettings struct {
	// Fallback is used when the summary carries no title marker.
	Fallback string
}

// LogSettings configures logging.
type LogSettings struct {
	// Verbose enables debug output on the console.
	Verbose bool
}

// AppSettings is the complete application configuration.
type AppSettings struct {
	Paths     PathSettings
	Segmenter SegmenterSettings
	Backend   BackendSettings
	Extractor ExtractorSettings
	Storage   StorageSettings
	Title     TitleSettings
	Log       LogSettings
}

// Default configuration values.
const (
	DefaultMaxChars      = 7500
	DefaultPollInterval  = time.Second
	DefaultMinTextLength = 10
	DefaultTitleFallback = "untitled"
)

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Paths:     PathSettings{BaseDir: "."},
		Segmenter: SegmenterSettings{MaxChars: DefaultMaxChars},
		Backend: BackendSettings{
			Provider:     BackendOpenAI,
			PollInterval: DefaultPollInterval,
		},
		Extractor: ExtractorSettings{
			Engine:        ExtractorNative,
			MinTextLength: DefaultMinTextLength,
		},
		Storage: StorageSettings{Backend: StorageJSON},
		Title:   TitleSettings{Fallback: DefaultTitleFallback},
	}
}

// Settings validation errors.
var (
	ErrMissingAssistantID = errors.New("backend assistant id is required")
	ErrMissingAPIKey      = errors.New("backend API key is required")
)

// Validate checks the settings are usable for a pipeline run.
func (s *AppSettings) Validate() error {
	if s.Segmenter.MaxChars < 1 {
		return fmt.Errorf("%w: segmenter max_chars must be positive", ErrInvalidInput)
	}
	if s.Backend.PollInterval <= 0 {
		return fmt.Errorf("%w: backend poll_interval must be positive", ErrInvalidInput)
	}
	if !s.Backend.Provider.IsValid() {
		return fmt.Errorf("%w: backend %q", ErrUnsupportedType, s.Backend.Provider)
	}
	if !s.Extractor.Engine.IsValid() {
		return fmt.Errorf("%w: extractor %q", ErrUnsupportedType, s.Extractor.Engine)
	}
	if !s.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: storage %q", ErrUnsupportedType, s.Storage.Backend)
	}
	if s.Backend.Provider == BackendOpenAI {
		if s.Backend.AssistantID == "" {
			return ErrMissingAssistantID
		}
		if s.Backend.APIKey == "" {
			return ErrMissingAPIKey
		}
	}
	return nil
}

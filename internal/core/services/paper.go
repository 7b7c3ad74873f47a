package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driving"
	"github.com/christopherbholland/PaperBoi/internal/logger"
)

// Ensure PaperService implements the interface.
var _ driving.PaperService = (*PaperService)(nil)

// leadingPages is how many pages feed the heuristic title and DOI search.
const leadingPages = 2

// PaperDeps are the driven ports the pipeline calls.
type PaperDeps struct {
	Retriever driven.Retriever
	Extractor driven.TextExtractor
	Segmenter driven.Segmenter
	Sessions  *SessionDriver
	Summaries driven.SummaryStore
	Metadata  driven.MetadataStore
}

// PaperOption configures a PaperService.
type PaperOption func(*PaperService)

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) PaperOption {
	return func(s *PaperService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMinTextLength sets the trimmed text length below which a source is
// rejected as scanned or unreadable.
func WithMinTextLength(n int) PaperOption {
	return func(s *PaperService) {
		if n > 0 {
			s.minTextLength = n
		}
	}
}

// WithTitleFallback sets the title used when the summary has no marker.
func WithTitleFallback(title string) PaperOption {
	return func(s *PaperService) {
		if title != "" {
			s.titleFallback = title
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) PaperOption {
	return func(s *PaperService) {
		if l != nil {
			s.log = l
		}
	}
}

// PaperService runs the summarisation pipeline for one paper at a time.
// Independent calls to Process may run concurrently.
type PaperService struct {
	deps          PaperDeps
	log           *logger.Logger
	now           func() time.Time
	minTextLength int
	titleFallback string
}

// NewPaperService creates a new paper service.
func NewPaperService(deps PaperDeps, opts ...PaperOption) *PaperService {
	s := &PaperService{
		deps:          deps,
		log:           logger.Nop(),
		now:           time.Now,
		minTextLength: domain.DefaultMinTextLength,
		titleFallback: domain.DefaultTitleFallback,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process downloads, summarises and records the paper at rawURL. Every
// failure aborts the run; the metadata record is written last.
func (s *PaperService) Process(ctx context.Context, rawURL string) (*domain.PaperMetadata, error) {
	s.log.Section("Processing " + rawURL)

	record, err := s.process(ctx, rawURL)
	if err != nil {
		s.log.Error("Processing %s failed: %v", rawURL, err)
		return nil, err
	}

	s.log.Info("Processed %s as %s (%d chunks)", rawURL, record.Title, record.NumChunks)
	return record, nil
}

func (s *PaperService) process(ctx context.Context, rawURL string) (*domain.PaperMetadata, error) {
	resolved, err := s.deps.Retriever.Resolve(ctx, rawURL)
	if err != nil {
		return nil, tag(domain.ErrValidation, "resolve url", err)
	}
	s.log.Debug("Resolved %s to %s", rawURL, resolved)

	file, err := s.deps.Retriever.Fetch(ctx, resolved)
	if err != nil {
		return nil, tag(domain.ErrRetrieval, "download", err)
	}
	s.log.Info("Downloaded %s (%d bytes)", file.Path, file.Size)

	doc, err := s.deps.Extractor.Extract(ctx, file.Path)
	if err != nil {
		return nil, tag(domain.ErrExtraction, "extract text", err)
	}
	doc.SourceURL = resolved
	if n := len([]rune(strings.TrimSpace(doc.Text))); n < s.minTextLength {
		return nil, domain.NewPipelineError(domain.ErrExtraction, "extract text",
			fmt.Errorf("only %d characters of text; the PDF is likely scanned or unreadable", n))
	}
	s.log.Debug("Extracted %d characters with %s", doc.Len(), s.deps.Extractor.Name())

	fragments, err := s.deps.Segmenter.Process(ctx, doc)
	if err != nil {
		return nil, tag(domain.ErrSegmentation, "segment text", err)
	}
	if len(fragments) == 0 {
		return nil, domain.NewPipelineError(domain.ErrSegmentation, "segment text", errors.New("no fragments produced"))
	}
	s.log.Info("Split text into %d chunks", len(fragments))

	summary, err := s.summarise(ctx, fragments)
	if err != nil {
		return nil, err
	}

	title := ExtractEmbeddedTitle(summary.Text, s.titleFallback)
	sourceTitle, doi := ExtractHeuristicTitleAndDOI(doc.LeadingText(leadingPages))
	if sourceTitle != "" && !strings.EqualFold(SanitizeTitle(sourceTitle), title) {
		s.log.Debug("Summary title %q differs from first-page title %q", title, sourceTitle)
	}

	now := s.now()
	name := fmt.Sprintf("%s_%s.txt", title, now.Format("20060102_150405"))
	path, err := s.deps.Summaries.WriteSummary(ctx, name, summary.Text)
	if err != nil {
		return nil, tag(domain.ErrPersistence, "write summary", err)
	}

	record := domain.PaperMetadata{
		OriginalFilename: file.Filename,
		OriginalURL:      rawURL,
		NumChunks:        len(fragments),
		ProcessingDate:   now,
		Title:            title,
		SourceTitle:      sourceTitle,
		DOI:              doi,
		SummaryPath:      path,
	}
	if err := s.deps.Metadata.Upsert(ctx, record); err != nil {
		return nil, tag(domain.ErrPersistence, "save metadata", err)
	}

	return &record, nil
}

// summarise runs one backend session over fragments, strictly in order.
func (s *PaperService) summarise(ctx context.Context, fragments []domain.Fragment) (*domain.Summary, error) {
	driver := s.deps.Sessions

	session, err := driver.Open(ctx, len(fragments))
	if err != nil {
		return nil, tag(domain.ErrBackend, "open session", err)
	}

	for _, f := range fragments {
		if err := driver.Send(ctx, session, f); err != nil {
			return nil, tag(domain.ErrBackend, fmt.Sprintf("send chunk %d/%d", f.Ordinal, len(fragments)), err)
		}
	}

	summary, err := driver.Synthesize(ctx, session)
	if err != nil {
		return nil, tag(domain.ErrBackend, "synthesize", err)
	}
	return summary, nil
}

// ListProcessed returns every recorded paper, newest first.
func (s *PaperService) ListProcessed(ctx context.Context) ([]domain.PaperMetadata, error) {
	all, err := s.deps.Metadata.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list metadata: %w", err)
	}

	records := make([]domain.PaperMetadata, 0, len(all))
	for _, r := range all {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].ProcessingDate.Equal(records[j].ProcessingDate) {
			return records[i].ProcessingDate.After(records[j].ProcessingDate)
		}
		return records[i].Key() < records[j].Key()
	})
	return records, nil
}

// ReadSummary returns the summary text stored at summaryPath.
func (s *PaperService) ReadSummary(ctx context.Context, summaryPath string) (string, error) {
	if summaryPath == "" {
		return "", fmt.Errorf("%w: empty summary path", domain.ErrInvalidInput)
	}
	content, err := s.deps.Summaries.ReadSummary(ctx, summaryPath)
	if err != nil {
		return "", fmt.Errorf("read summary: %w", err)
	}
	return content, nil
}

// tag wraps err as a pipeline error. Errors that already carry a kind
// keep it; anything else gets the stage's default kind.
func tag(kind domain.ErrorKind, op string, err error) error {
	var pe *domain.PipelineError
	if errors.As(err, &pe) {
		return err
	}
	for _, k := range []domain.ErrorKind{
		domain.ErrValidation, domain.ErrRetrieval, domain.ErrExtraction,
		domain.ErrSegmentation, domain.ErrBackend, domain.ErrPersistence,
	} {
		if errors.Is(err, k) {
			kind = k
			break
		}
	}
	return domain.NewPipelineError(kind, op, err)
}

// Package fetch resolves paper URLs and downloads the PDFs they point to.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
	"github.com/christopherbholland/PaperBoi/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driven.Retriever = (*Retriever)(nil)

// Default configuration values.
const (
	DefaultUserAgent   = "PaperBoi/1.0 (+https://github.com/christopherbholland/PaperBoi)"
	DefaultHeadTimeout = 10 * time.Second
	DefaultTimeout     = 5 * time.Minute
)

const pdfContentType = "application/pdf"

var arxivPath = regexp.MustCompile(`arxiv\.org/(?:abs|pdf|\w+)/(\d+\.\d+)`)

// Option configures a Retriever.
type Option func(*Retriever)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Retriever) {
		if c != nil {
			r.client = c
		}
	}
}

// WithClock sets the time source used to name downloads.
func WithClock(now func() time.Time) Option {
	return func(r *Retriever) {
		if now != nil {
			r.now = now
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(r *Retriever) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Retriever) {
		if l != nil {
			r.log = l
		}
	}
}

// Retriever validates paper URLs and downloads them into a directory.
type Retriever struct {
	dir         string
	client      *http.Client
	now         func() time.Time
	userAgent   string
	headTimeout time.Duration
	log         *logger.Logger
}

// New creates a retriever that saves downloads under dir.
func New(dir string, opts ...Option) *Retriever {
	r := &Retriever{
		dir:         dir,
		client:      &http.Client{Timeout: DefaultTimeout},
		now:         time.Now,
		userAgent:   DefaultUserAgent,
		headTimeout: DefaultHeadTimeout,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Normalize adds a missing https scheme, checks the URL has a host, and
// rewrites arXiv abstract and listing pages to their PDF link.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty url", domain.ErrValidation)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", domain.ErrValidation, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", domain.ErrValidation, raw)
	}

	if m := arxivPath.FindStringSubmatch(raw); m != nil {
		return fmt.Sprintf("https://arxiv.org/pdf/%s.pdf", m[1]), nil
	}
	return u.String(), nil
}

// Resolve normalises rawURL and confirms it serves a PDF. When it does
// not, the same URL with a .pdf suffix is tried once.
func (r *Retriever) Resolve(ctx context.Context, rawURL string) (string, error) {
	u, err := Normalize(rawURL)
	if err != nil {
		return "", err
	}

	contentType, err := r.sniff(ctx, u)
	if err != nil {
		return "", err
	}
	if isPDF(contentType) {
		return u, nil
	}

	if !strings.HasSuffix(strings.ToLower(u), ".pdf") {
		alt := u + ".pdf"
		r.log.Debug("%s served %q, trying %s", u, contentType, alt)
		if altType, err := r.sniff(ctx, alt); err == nil && isPDF(altType) {
			return alt, nil
		}
	}

	return "", fmt.Errorf("%w: %s is not a PDF (content type %q)", domain.ErrValidation, u, contentType)
}

// Fetch downloads u into the retriever's directory as
// paper_<YYYYMMDD_HHMMSS>.pdf.
func (r *Retriever) Fetch(ctx context.Context, u string) (*domain.SourceFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", domain.ErrRetrieval, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s: HTTP %d", domain.ErrRetrieval, u, resp.StatusCode)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
	}

	f, err := r.create()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
	}

	size, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("%w: saving %s: %w", domain.ErrRetrieval, u, err)
	}

	return &domain.SourceFile{
		Path:     f.Name(),
		Filename: filepath.Base(f.Name()),
		URL:      u,
		Size:     size,
	}, nil
}

// create opens a new download file. A numeric suffix is added when a
// download with the same timestamp already exists.
func (r *Retriever) create() (*os.File, error) {
	stamp := r.now().Format("20060102_150405")
	for i := 0; ; i++ {
		name := fmt.Sprintf("paper_%s.pdf", stamp)
		if i > 0 {
			name = fmt.Sprintf("paper_%s_%d.pdf", stamp, i)
		}
		f, err := os.OpenFile(filepath.Join(r.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		return f, err
	}
}

// sniff issues a HEAD request, following redirects, and returns the
// Content-Type. Transport failures are retrieval errors.
func (r *Retriever) sniff(ctx context.Context, u string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.headTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: HEAD %s: %w", domain.ErrRetrieval, u, err)
	}
	_ = resp.Body.Close()

	return resp.Header.Get("Content-Type"), nil
}

func isPDF(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), pdfContentType)
	}
	return mediaType == pdfContentType
}

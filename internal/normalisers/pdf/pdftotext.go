package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
)

// Ensure PdftotextExtractor implements the interface.
var _ driven.TextExtractor = (*PdftotextExtractor)(nil)

const pdftotextBinary = "pdftotext"

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

// PdftotextExtractor shells out to poppler's pdftotext.
type PdftotextExtractor struct {
	runner CommandRunner
}

// NewPdftotext creates an extractor that runs the pdftotext binary.
func NewPdftotext() *PdftotextExtractor {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates a pdftotext extractor with a custom runner.
func NewWithRunner(runner CommandRunner) *PdftotextExtractor {
	return &PdftotextExtractor{runner: runner}
}

// Name returns the extractor name.
func (e *PdftotextExtractor) Name() string {
	return pdftotextBinary
}

// Extract runs pdftotext on path. pdftotext ends every page with a form
// feed, which is used to split pages.
func (e *PdftotextExtractor) Extract(ctx context.Context, path string) (*domain.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}

	out, err := e.runner.Run(ctx, pdftotextBinary, "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext %s: %w", path, err)
	}

	pages := strings.Split(string(out), "\f")
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}

	return &domain.Document{
		Text:  strings.Join(pages, "\n"),
		Pages: pages,
	}, nil
}

// CheckAvailable reports whether pdftotext is on PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath(pdftotextBinary); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns how to install pdftotext.
func InstallInstructions() string {
	return `pdftotext is provided by poppler:
  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils`
}

package domain

import (
	"strings"
	"unicode/utf8"
)

// SourceFile is a downloaded paper on local disk.
type SourceFile struct {
	// Path is the local file path.
	Path string

	// Filename is the base name of Path.
	Filename string

	// URL is the resolved URL the file was downloaded from.
	URL string

	// Size is the number of bytes written.
	Size int64
}

// Document is the raw text extracted from a source file.
// It is immutable once produced and discarded after segmentation.
type Document struct {
	// Text is the full extracted text.
	Text string

	// SourceURL is the originating URL.
	SourceURL string

	// Pages holds per-page text when the extractor can provide it.
	Pages []string
}

// Len returns the text length in characters.
func (d *Document) Len() int {
	return utf8.RuneCountInString(d.Text)
}

// LeadingText returns the text of the first n pages joined by newlines.
// Without page information it falls back to the full text.
func (d *Document) LeadingText(n int) string {
	if len(d.Pages) == 0 {
		return d.Text
	}
	if n > len(d.Pages) {
		n = len(d.Pages)
	}
	return strings.Join(d.Pages[:n], "\n")
}

// Fragment is one ordered chunk of document text.
type Fragment struct {
	// ID is the unique identifier for the fragment.
	ID string

	// Ordinal is the 1-based position within the document.
	Ordinal int

	// Text is the fragment content.
	Text string
}

// Len returns the fragment length in characters.
func (f Fragment) Len() int {
	return utf8.RuneCountInString(f.Text)
}

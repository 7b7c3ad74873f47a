// Package chunker provides a sentence-bounded text segmenter.
//
// Text is split after '.', '!' or '?' followed by whitespace, and sentences
// are packed greedily into fragments of at most MaxChars characters. A
// sentence longer than MaxChars is emitted alone rather than split.
package chunker

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Segmenter = (*Processor)(nil)

// DefaultMaxChars is the default fragment budget in characters.
const DefaultMaxChars = domain.DefaultMaxChars

var sentenceBoundary = regexp.MustCompile(`[.!?][\s\p{Z}]+`)

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Processor splits document text into fragments.
type Processor struct {
	maxChars int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxChars sets the fragment budget in characters.
func WithMaxChars(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxChars = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{maxChars: DefaultMaxChars}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// MaxChars returns the configured fragment budget.
func (p *Processor) MaxChars() int {
	return p.maxChars
}

// Process segments the document text into fragments numbered from 1.
func (p *Processor) Process(ctx context.Context, doc *domain.Document) ([]domain.Fragment, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	texts := Segment(doc.Text, p.maxChars)
	if len(texts) == 0 {
		return nil, nil
	}

	fragments := make([]domain.Fragment, len(texts))
	for i, text := range texts {
		fragments[i] = domain.Fragment{
			ID:      uuid.New().String(),
			Ordinal: i + 1,
			Text:    text,
		}
	}
	return fragments, nil
}

// SplitSentences collapses newlines to spaces and splits text after
// sentence-ending punctuation. Blank sentences are dropped.
func SplitSentences(text string) []string {
	text = newlines.Replace(text)

	var sentences []string
	push := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		// keep the punctuation, drop the whitespace
		push(text[start : loc[0]+1])
		start = loc[1]
	}
	push(text[start:])

	return sentences
}

// Segment packs sentences into fragments of at most maxChars characters,
// counting the single spaces that join them. Empty text yields nil.
func Segment(text string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}

	var (
		fragments  []string
		current    []string
		currentLen int
	)

	flush := func() {
		if len(current) > 0 {
			fragments = append(fragments, strings.Join(current, " "))
			current = current[:0]
			currentLen = 0
		}
	}

	for _, sentence := range SplitSentences(text) {
		n := utf8.RuneCountInString(sentence)
		if len(current) > 0 && currentLen+1+n > maxChars {
			flush()
		}
		if len(current) > 0 {
			currentLen++
		}
		current = append(current, sentence)
		currentLen += n
	}
	flush()

	return fragments
}

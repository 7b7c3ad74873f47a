package chunker

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		assert.Equal(t, DefaultMaxChars, p.MaxChars())
	})

	t.Run("custom max chars", func(t *testing.T) {
		p := New(WithMaxChars(500))
		assert.Equal(t, 500, p.MaxChars())
	})

	t.Run("non-positive values ignored", func(t *testing.T) {
		p := New(WithMaxChars(0), WithMaxChars(-3))
		assert.Equal(t, DefaultMaxChars, p.MaxChars())
	})
}

func TestProcessor_Name(t *testing.T) {
	assert.Equal(t, "chunker", New().Name())
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "three terminators",
			text:     "One. Two! Three?",
			expected: []string{"One.", "Two!", "Three?"},
		},
		{
			name:     "newlines collapse",
			text:     "First line\ncontinues here. Second\r\nsentence.",
			expected: []string{"First line continues here.", "Second sentence."},
		},
		{
			name:     "no terminator",
			text:     "no punctuation at all",
			expected: []string{"no punctuation at all"},
		},
		{
			name:     "punctuation without whitespace does not split",
			text:     "Version 1.5 is out. See arxiv.org for details.",
			expected: []string{"Version 1.5 is out.", "See arxiv.org for details."},
		},
		{
			name:     "abbreviations split",
			text:     "Use tools, e.g. grep. Done.",
			expected: []string{"Use tools, e.g.", "grep.", "Done."},
		},
		{
			name:     "unicode spaces after terminator",
			text:     "One.\u00a0Two!\u2003Three?\u3000Four.",
			expected: []string{"One.", "Two!", "Three?", "Four."},
		},
		{
			name:     "whitespace only",
			text:     "   \n\t  ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitSentences(tt.text))
		})
	}
}

func TestSegment(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		expected []string
	}{
		{
			name:     "each sentence alone fits but two do not",
			text:     "Sentence one here. Sentence two here! Sentence three here?",
			maxChars: 24,
			expected: []string{"Sentence one here.", "Sentence two here!", "Sentence three here?"},
		},
		{
			name:     "greedy packing",
			text:     "This is sentence one. This is sentence two! Is this sentence three? Yes, it is.",
			maxChars: 50,
			expected: []string{
				"This is sentence one. This is sentence two!",
				"Is this sentence three? Yes, it is.",
			},
		},
		{
			name:     "short text is one fragment",
			text:     "Short text.\nStill short.",
			maxChars: 100,
			expected: []string{"Short text. Still short."},
		},
		{
			name:     "empty text",
			text:     "",
			maxChars: 100,
			expected: nil,
		},
		{
			name:     "over-long sentence stands alone",
			text:     "Tiny. This sentence is much longer than the budget allows. End.",
			maxChars: 10,
			expected: []string{"Tiny.", "This sentence is much longer than the budget allows.", "End."},
		},
		{
			name:     "no-break space is a boundary",
			text:     "One.\u00a0Two.",
			maxChars: 4,
			expected: []string{"One.", "Two."},
		},
		{
			name:     "exact fit",
			text:     "abcd. efgh.",
			maxChars: 11,
			expected: []string{"abcd. efgh."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Segment(tt.text, tt.maxChars))
		})
	}
}

func TestSegment_SingleLongSentence(t *testing.T) {
	text := strings.Repeat("A", 7500)

	fragments := Segment(text, 7500)

	require.Len(t, fragments, 1)
	assert.Equal(t, text, fragments[0])
}

func TestSegment_Properties(t *testing.T) {
	texts := []string{
		"Deep learning has revolutionised NLP. Transformers replaced recurrence! Why does attention work? " +
			"Nobody fully knows.\nFurther work is needed. The end.",
		strings.Repeat("Alpha beta gamma delta. ", 40),
		"One! Two? Three. " + strings.Repeat("x", 90) + ". Four.",
		"Über naïve café sentences. Ünïcödé counts runes! Fin.",
	}

	for _, text := range texts {
		sentences := SplitSentences(text)
		for _, maxChars := range []int{1, 5, 24, 50, 100, 1000} {
			fragments := Segment(text, maxChars)

			for _, f := range fragments {
				assert.NotEmpty(t, strings.TrimSpace(f))
				if utf8.RuneCountInString(f) > maxChars {
					assert.Contains(t, sentences, f, "only a single over-long sentence may exceed the budget")
				}
			}

			assert.Equal(t, strings.Join(sentences, " "), strings.Join(fragments, " "),
				"fragments must cover every sentence in order")
		}
	}
}

func TestProcessor_Process(t *testing.T) {
	p := New(WithMaxChars(24))
	doc := &domain.Document{Text: "Sentence one here. Sentence two here! Sentence three here?"}

	fragments, err := p.Process(context.Background(), doc)

	require.NoError(t, err)
	require.Len(t, fragments, 3)
	ids := make(map[string]bool)
	for i, f := range fragments {
		assert.Equal(t, i+1, f.Ordinal)
		assert.NotEmpty(t, f.ID)
		ids[f.ID] = true
	}
	assert.Len(t, ids, 3, "fragment ids must be unique")
	assert.Equal(t, "Sentence two here!", fragments[1].Text)
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	fragments, err := New().Process(context.Background(), &domain.Document{})

	require.NoError(t, err)
	assert.Empty(t, fragments)
}

func TestProcessor_Process_NilDocument(t *testing.T) {
	_, err := New().Process(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProcessor_Process_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Process(ctx, &domain.Document{Text: "Some text."})

	assert.ErrorIs(t, err, context.Canceled)
}

package list

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

func papers(n int) []domain.PaperMetadata {
	out := make([]domain.PaperMetadata, n)
	for i := range out {
		out[i] = domain.PaperMetadata{
			Title:          "Paper",
			OriginalURL:    "https://example.com/p.pdf",
			ProcessingDate: time.Date(2024, 1, 1+i, 9, 30, 0, 0, time.UTC),
		}
	}
	return out
}

func TestPaperList_Empty(t *testing.T) {
	l := NewPaperList(nil)

	assert.Nil(t, l.SelectedPaper())
	assert.Contains(t, l.View(), "No papers processed yet.")

	l.MoveDown()
	l.MoveUp()
	assert.Equal(t, 0, l.SelectedIndex())
}

func TestPaperList_Navigation(t *testing.T) {
	l := NewPaperList(nil)
	l.SetPapers(papers(3))

	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.SelectedIndex())

	l.MoveUp()
	require.NotNil(t, l.SelectedPaper())
	assert.Equal(t, 2, l.SelectedPaper().ProcessingDate.Day())
}

func TestPaperList_SetPapersResetsCursor(t *testing.T) {
	l := NewPaperList(nil)
	l.SetPapers(papers(3))
	l.MoveDown()

	l.SetPapers(papers(2))

	assert.Equal(t, 0, l.SelectedIndex())
	assert.Equal(t, 2, l.Len())
}

func TestPaperList_Scrolls(t *testing.T) {
	l := NewPaperList(nil)
	l.SetSize(80, 4)
	l.SetPapers(papers(5))

	for range 4 {
		l.MoveDown()
	}

	view := l.View()
	assert.Contains(t, view, "5. Paper")
	assert.NotContains(t, view, "1. Paper")
	assert.Contains(t, view, "5/5")
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name  string
		paper domain.PaperMetadata
		want  string
	}{
		{"source title", domain.PaperMetadata{SourceTitle: "Attention", Title: "Attention_Is"}, "Attention"},
		{"title", domain.PaperMetadata{Title: "Attention_Is"}, "Attention_Is"},
		{"url", domain.PaperMetadata{OriginalURL: "https://x.io/a.pdf"}, "https://x.io/a.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayTitle(tt.paper))
		})
	}
}

func TestPaperList_ViewShowsDOI(t *testing.T) {
	l := NewPaperList(nil)
	p := papers(1)
	p[0].DOI = "10.1/abc"
	l.SetPapers(p)

	view := l.View()

	assert.Contains(t, view, "doi:10.1/abc")
	assert.Contains(t, view, "2024-01-01 09:30")
}

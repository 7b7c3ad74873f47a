// Package list provides the processed papers list.
package list

import (
	"fmt"
	"strings"

	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/styles"
	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

const dateLayout = "2006-01-02 15:04"

// PaperList renders processed papers with a cursor.
type PaperList struct {
	styles   *styles.Styles
	papers   []domain.PaperMetadata
	selected int
	offset   int
	height   int
	width    int
}

// NewPaperList creates an empty list.
func NewPaperList(s *styles.Styles) *PaperList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &PaperList{styles: s, height: 10, width: 80}
}

// SetPapers replaces the list contents and resets the cursor.
func (l *PaperList) SetPapers(papers []domain.PaperMetadata) {
	l.papers = papers
	l.selected = 0
	l.offset = 0
}

// Papers returns the list contents.
func (l *PaperList) Papers() []domain.PaperMetadata {
	return l.papers
}

// Len returns the number of papers.
func (l *PaperList) Len() int {
	return len(l.papers)
}

// MoveUp moves the cursor up one paper.
func (l *PaperList) MoveUp() {
	if l.selected > 0 {
		l.selected--
		if l.selected < l.offset {
			l.offset = l.selected
		}
	}
}

// MoveDown moves the cursor down one paper.
func (l *PaperList) MoveDown() {
	if l.selected < len(l.papers)-1 {
		l.selected++
		if l.selected >= l.offset+l.visible() {
			l.offset = l.selected - l.visible() + 1
		}
	}
}

// SelectedIndex returns the cursor position.
func (l *PaperList) SelectedIndex() int {
	return l.selected
}

// SelectedPaper returns the paper under the cursor, or nil when empty.
func (l *PaperList) SelectedPaper() *domain.PaperMetadata {
	if l.selected < 0 || l.selected >= len(l.papers) {
		return nil
	}
	return &l.papers[l.selected]
}

// SetSize sets the list dimensions.
func (l *PaperList) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Each paper takes two lines.
func (l *PaperList) visible() int {
	n := l.height / 2
	if n < 1 {
		return 1
	}
	return n
}

// View renders the visible window of papers.
func (l *PaperList) View() string {
	if len(l.papers) == 0 {
		return l.styles.Muted.Render("No papers processed yet.")
	}

	var b strings.Builder
	end := min(l.offset+l.visible(), len(l.papers))
	for i := l.offset; i < end; i++ {
		p := l.papers[i]

		title := fmt.Sprintf("%d. %s", i+1, displayTitle(p))
		if i == l.selected {
			b.WriteString(l.styles.Selected.Render("> " + title))
		} else {
			b.WriteString(l.styles.Normal.Render("  " + title))
		}
		b.WriteString("\n")

		detail := "   " + p.ProcessingDate.Format(dateLayout)
		if p.DOI != "" {
			detail += "  doi:" + p.DOI
		}
		b.WriteString(l.styles.Muted.Render(detail))
		b.WriteString("\n")
	}

	if len(l.papers) > l.visible() {
		b.WriteString(l.styles.Muted.Render(fmt.Sprintf("   %d/%d", l.selected+1, len(l.papers))))
	}
	return strings.TrimRight(b.String(), "\n")
}

func displayTitle(p domain.PaperMetadata) string {
	if p.SourceTitle != "" {
		return p.SourceTitle
	}
	if p.Title != "" {
		return p.Title
	}
	return p.OriginalURL
}

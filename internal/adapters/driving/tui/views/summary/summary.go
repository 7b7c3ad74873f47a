// Package summary provides the scrollable summary reader.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/components/status"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/keymap"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/messages"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/styles"
	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driving"
)

// Lines taken by the title, metadata and scroll footer.
const chromeHeight = 8

// View shows one paper's summary.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	papers   driving.PaperService
	ctx      context.Context
	viewport viewport.Model

	paper   *domain.PaperMetadata
	content string
	loading bool
	err     error
	width   int
}

// NewView creates the summary view.
func NewView(s *styles.Styles, km *keymap.KeyMap, papers driving.PaperService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:   s,
		keymap:   km,
		papers:   papers,
		ctx:      context.Background(),
		viewport: viewport.New(80, 16),
		width:    80,
	}
}

// SetContext sets the context used for reading summaries.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// SetPaper switches to paper and starts reading its summary.
func (v *View) SetPaper(paper domain.PaperMetadata) tea.Cmd {
	v.paper = &paper
	v.content = ""
	v.err = nil
	v.loading = true
	v.viewport.SetContent("")
	v.viewport.GotoTop()

	ctx, papers, path := v.ctx, v.papers, paper.SummaryPath
	return func() tea.Msg {
		content, err := papers.ReadSummary(ctx, path)
		return messages.SummaryLoaded{Path: path, Content: content, Err: err}
	}
}

// Update handles the loaded summary, scrolling and esc.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.SummaryLoaded:
		if v.paper == nil || msg.Path != v.paper.SummaryPath {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		v.content = msg.Content
		v.refreshContent()
		return v, nil

	case tea.KeyMsg:
		if key.Matches(msg, v.keymap.Back) {
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewPapers} }
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *View) refreshContent() {
	wrapped := lipgloss.NewStyle().Width(max(v.viewport.Width-1, 10)).Render(v.content)
	v.viewport.SetContent(wrapped)
}

// View renders the metadata header and the scrollable summary.
func (v *View) View() string {
	var b strings.Builder

	if v.paper == nil {
		return v.styles.Muted.Render("No paper selected.")
	}

	b.WriteString(v.styles.Title.Render(v.paper.Title))
	b.WriteString("\n")
	if v.paper.SourceTitle != "" {
		b.WriteString(v.styles.Label.Render("Source") + v.styles.Normal.Render(v.paper.SourceTitle) + "\n")
	}
	if v.paper.DOI != "" {
		b.WriteString(v.styles.Label.Render("DOI") + v.styles.Normal.Render(v.paper.DOI) + "\n")
	}
	b.WriteString(v.styles.Label.Render("URL") + v.styles.Muted.Render(v.paper.OriginalURL) + "\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading summary..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Could not read summary: " + v.err.Error()))
	default:
		b.WriteString(v.viewport.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%3.f%%", v.viewport.ScrollPercent()*100)))
	}
	return b.String()
}

// Hints returns the reader keys.
func (v *View) Hints() []key.Binding {
	return []key.Binding{v.keymap.Up, v.keymap.Down, v.keymap.Back}
}

// Status reports read errors for the status bar.
func (v *View) Status() (status.State, string) {
	if v.err != nil {
		return status.StateError, v.err.Error()
	}
	return status.StateReady, ""
}

// Content returns the loaded summary text.
func (v *View) Content() string {
	return v.content
}

// SetDimensions sizes the viewport.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.viewport.Width = width
	v.viewport.Height = max(height-chromeHeight, 3)
	if v.content != "" {
		v.refreshContent()
	}
}

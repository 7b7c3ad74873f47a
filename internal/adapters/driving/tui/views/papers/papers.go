// Package papers provides the processed papers browser.
package papers

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/components/list"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/components/status"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/keymap"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/messages"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/styles"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driving"
)

// View lists processed papers newest first.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	papers  driving.PaperService
	ctx     context.Context
	list    *list.PaperList
	loading bool
	err     error
}

// NewView creates the papers view.
func NewView(s *styles.Styles, km *keymap.KeyMap, papers driving.PaperService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles: s,
		keymap: km,
		papers: papers,
		ctx:    context.Background(),
		list:   list.NewPaperList(s),
	}
}

// SetContext sets the context used for loading.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Load starts fetching the processed papers.
func (v *View) Load() tea.Cmd {
	v.loading = true
	v.err = nil

	ctx, papers := v.ctx, v.papers
	return func() tea.Msg {
		records, err := papers.ListProcessed(ctx)
		return messages.PapersLoaded{Papers: records, Err: err}
	}
}

// Update handles loaded papers and navigation keys.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.PapersLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.list.SetPapers(msg.Papers)
		}
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Up):
			v.list.MoveUp()
		case key.Matches(msg, v.keymap.Down):
			v.list.MoveDown()
		case key.Matches(msg, v.keymap.Select):
			if p := v.list.SelectedPaper(); p != nil {
				paper := *p
				return v, func() tea.Msg { return messages.PaperSelected{Paper: paper} }
			}
		case key.Matches(msg, v.keymap.Reload):
			return v, v.Load()
		case key.Matches(msg, v.keymap.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		}
	}
	return v, nil
}

// View renders the list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Processed papers"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Could not load papers: " + v.err.Error()))
	default:
		b.WriteString(v.list.View())
	}
	return b.String()
}

// Hints returns the list keys.
func (v *View) Hints() []key.Binding {
	return v.keymap.PapersHelp()
}

// Status reports load errors for the status bar.
func (v *View) Status() (status.State, string) {
	if v.err != nil {
		return status.StateError, v.err.Error()
	}
	return status.StateReady, ""
}

// Count returns the number of listed papers.
func (v *View) Count() int {
	return v.list.Len()
}

// SetDimensions sizes the list below the title.
func (v *View) SetDimensions(width, height int) {
	v.list.SetSize(width, max(height-5, 2))
}

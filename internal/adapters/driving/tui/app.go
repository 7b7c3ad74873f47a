package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/components/status"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/keymap"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/messages"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/styles"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/views/menu"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/views/papers"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/views/process"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/views/summary"
)

// App is the root Bubbletea model. It routes messages to the active view.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	bar    *status.Bar

	menuView    *menu.View
	processView *process.View
	papersView  *papers.View
	summaryView *summary.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates the TUI over the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		bar:         status.NewBar(s),
		menuView:    menu.NewView(s),
		processView: process.NewView(s, km, ports.Paper),
		papersView:  papers.NewView(s, km, ports.Paper),
		summaryView: summary.NewView(s, km, ports.Paper),
		currentView: messages.ViewMenu,
	}, nil
}

// WithContext sets the context pipeline runs and reads are bound to.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.processView.SetContext(ctx)
	a.papersView.SetContext(ctx)
	a.summaryView.SetContext(ctx)
	return a
}

// Init sets the window title and loads the paper count for the status bar.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("paperboi"),
		a.papersView.Load(),
	)
}

// Update routes a message to the app or the active view.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.handleKey(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewProcess:
			return a, a.processView.Init()
		case messages.ViewPapers:
			return a, a.papersView.Load()
		case messages.ViewMenu, messages.ViewSummary, messages.ViewHelp:
		}
		return a, nil

	case messages.ProcessCompleted:
		a.processView, cmd = a.processView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			return a, cmd
		}
		return a, tea.Batch(cmd, a.papersView.Load())

	case messages.PapersLoaded:
		a.papersView, cmd = a.papersView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
		} else {
			a.bar.SetPaperCount(len(msg.Papers))
		}
		return a, cmd

	case messages.PaperSelected:
		a.currentView = messages.ViewSummary
		return a, a.summaryView.SetPaper(msg.Paper)

	case messages.SummaryLoaded:
		a.summaryView, cmd = a.summaryView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil
	}

	// Spinner ticks keep flowing while a run continues in the background.
	if a.processView.Running() {
		a.processView, cmd = a.processView.Update(msg)
		return a, cmd
	}
	return a, a.forward(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.currentView == messages.ViewHelp {
		switch {
		case key.Matches(msg, a.keymap.Back):
			a.currentView = messages.ViewMenu
		case msg.String() == "q":
			return tea.Quit
		}
		return nil
	}
	return a.forward(msg)
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewProcess:
		a.processView, cmd = a.processView.Update(msg)
	case messages.ViewPapers:
		a.papersView, cmd = a.papersView.Update(msg)
	case messages.ViewSummary:
		a.summaryView, cmd = a.summaryView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// View renders the active view above the status bar.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	var hints []key.Binding
	state, message := status.StateReady, ""

	switch a.currentView {
	case messages.ViewProcess:
		body, hints = a.processView.View(), a.processView.Hints()
		state, message = a.processView.Status()
	case messages.ViewPapers:
		body, hints = a.papersView.View(), a.papersView.Hints()
		state, message = a.papersView.Status()
	case messages.ViewSummary:
		body, hints = a.summaryView.View(), a.summaryView.Hints()
		state, message = a.summaryView.Status()
	case messages.ViewHelp:
		body, hints = a.viewHelp(), []key.Binding{a.keymap.Back, a.keymap.Quit}
	default:
		body, hints = a.menuView.View(), []key.Binding{a.keymap.Up, a.keymap.Down, a.keymap.Quit}
	}

	if a.currentView != messages.ViewProcess && a.processView.Running() {
		state, message = a.processView.Status()
	}

	a.bar.SetState(state, message)
	a.bar.SetHints(hints)

	gap := a.height - strings.Count(body, "\n") - 2
	if gap < 1 {
		gap = 1
	}
	return body + strings.Repeat("\n", gap) + a.bar.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(a.styles.Label.Render(h.Key) + a.styles.Normal.Render(h.Desc) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Muted.Render("Press esc during a run to cancel it."))
	return b.String()
}

// Run starts the program in the alternate screen.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error reported by a view.
func (a *App) Err() error {
	return a.err
}

// Ready reports whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.bar.SetWidth(width)
	a.menuView.SetDimensions(width, height)
	a.processView.SetDimensions(width, height)
	a.papersView.SetDimensions(width, height)
	a.summaryView.SetDimensions(width, height)
}

// Package process provides the view that runs the pipeline on one URL.
package process

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/components/input"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/components/status"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/keymap"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/messages"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/styles"
	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driving"
)

type state int

const (
	stateInput state = iota
	stateRunning
	stateDone
)

// View takes a URL, runs it through the paper service and shows the record.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	papers  driving.PaperService
	ctx     context.Context
	cancel  context.CancelFunc
	input   *input.URLInput
	spinner spinner.Model

	state  state
	url    string
	record *domain.PaperMetadata
	err    error
	width  int
}

// NewView creates the process view.
func NewView(s *styles.Styles, km *keymap.KeyMap, papers driving.PaperService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:  s,
		keymap:  km,
		papers:  papers,
		ctx:     context.Background(),
		input:   input.NewURLInput(s),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Warning)),
		width:   80,
	}
}

// SetContext sets the parent context of pipeline runs.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init focuses the URL input unless a run is in flight.
func (v *View) Init() tea.Cmd {
	if v.state == stateRunning {
		return nil
	}
	return v.input.Focus()
}

// Update handles keys, spinner ticks and pipeline results.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ProcessCompleted:
		if v.state != stateRunning || msg.URL != v.url {
			return v, nil
		}
		v.finish(msg.Record, msg.Err)
		return v, nil

	case spinner.TickMsg:
		if v.state != stateRunning {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	if v.state == stateInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch v.state {
	case stateInput:
		switch {
		case key.Matches(msg, v.keymap.Back):
			return v, changeView(messages.ViewMenu)
		case key.Matches(msg, v.keymap.Submit):
			url := v.input.Value()
			if url == "" {
				return v, nil
			}
			return v, v.start(url)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd

	case stateRunning:
		if key.Matches(msg, v.keymap.Back) && v.cancel != nil {
			v.cancel()
		}
		return v, nil

	case stateDone:
		switch {
		case key.Matches(msg, v.keymap.NewURL), key.Matches(msg, v.keymap.Submit):
			v.state = stateInput
			v.record = nil
			v.err = nil
			return v, v.input.Reset()
		case key.Matches(msg, v.keymap.Back):
			return v, changeView(messages.ViewMenu)
		}
	}
	return v, nil
}

func (v *View) start(url string) tea.Cmd {
	ctx, cancel := context.WithCancel(v.ctx)
	v.cancel = cancel
	v.state = stateRunning
	v.url = url
	v.record = nil
	v.err = nil
	v.input.Blur()

	papers := v.papers
	run := func() tea.Msg {
		defer cancel()
		record, err := papers.Process(ctx, url)
		return messages.ProcessCompleted{URL: url, Record: record, Err: err}
	}
	return tea.Batch(v.spinner.Tick, run)
}

func (v *View) finish(record *domain.PaperMetadata, err error) {
	v.state = stateDone
	v.record = record
	v.err = err
	v.cancel = nil
}

// View renders the input, the spinner or the outcome.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Process paper"))
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	switch v.state {
	case stateInput:
		b.WriteString(v.styles.Muted.Render("Paste an arXiv, OpenReview or direct PDF link."))
	case stateRunning:
		b.WriteString(v.spinner.View() + " " + v.styles.Normal.Render("Summarising "+v.url))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("This can take a few minutes. Press esc to cancel."))
	case stateDone:
		b.WriteString(v.renderOutcome())
	}
	return b.String()
}

func (v *View) renderOutcome() string {
	if v.err != nil {
		if errors.Is(v.err, context.Canceled) {
			return v.styles.Warning.Render("Cancelled.")
		}
		return v.styles.Error.Render("Failed: " + v.err.Error())
	}
	if v.record == nil {
		return ""
	}

	r := v.record
	lines := []string{v.styles.Success.Render("Summary saved.")}
	field := func(label, value string) {
		if value != "" {
			lines = append(lines, v.styles.Label.Render(label)+v.styles.Normal.Render(value))
		}
	}
	field("Title", r.Title)
	field("Source", r.SourceTitle)
	field("DOI", r.DOI)
	field("Chunks", fmt.Sprintf("%d", r.NumChunks))
	field("Summary", r.SummaryPath)
	return strings.Join(lines, "\n")
}

// Hints returns the keys valid in the current state.
func (v *View) Hints() []key.Binding {
	switch v.state {
	case stateRunning:
		return []key.Binding{v.keymap.Back}
	case stateDone:
		return v.keymap.DoneHelp()
	default:
		return v.keymap.ProcessHelp()
	}
}

// Status reports the run state for the status bar.
func (v *View) Status() (status.State, string) {
	switch v.state {
	case stateRunning:
		return status.StateProcessing, v.url
	case stateDone:
		if v.err != nil {
			return status.StateError, v.err.Error()
		}
		if v.record != nil {
			return status.StateDone, v.record.Title
		}
	}
	return status.StateReady, ""
}

// Running reports whether a pipeline run is in flight.
func (v *View) Running() bool {
	return v.state == stateRunning
}

// Record returns the last successful record.
func (v *View) Record() *domain.PaperMetadata {
	return v.record
}

// Err returns the last run's error.
func (v *View) Err() error {
	return v.err
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, _ int) {
	v.width = width
	v.input.SetWidth(width)
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

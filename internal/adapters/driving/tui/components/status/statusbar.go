// Package status provides the status bar shown under every view.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/styles"
)

// State is what the status bar reports on its left side.
type State string

const (
	StateReady      State = "ready"
	StateProcessing State = "processing"
	StateDone       State = "done"
	StateError      State = "error"
)

// Bar shows the application state and the keys valid in the current view.
type Bar struct {
	styles     *styles.Styles
	state      State
	message    string
	paperCount int
	hints      []key.Binding
	width      int
}

// NewBar creates a status bar. A nil styles value uses the defaults.
func NewBar(s *styles.Styles) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Bar{
		styles: s,
		state:  StateReady,
		width:  80,
	}
}

// View renders the bar padded to its width.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderHints()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (b *Bar) renderLeft() string {
	switch b.state {
	case StateProcessing:
		if b.message != "" {
			return b.styles.Warning.Render("Processing " + b.message)
		}
		return b.styles.Warning.Render("Processing...")
	case StateDone:
		return b.styles.Success.Render("Done: " + b.message)
	case StateError:
		if b.message != "" {
			return b.styles.Error.Render("Error: " + b.message)
		}
		return b.styles.Error.Render("Error")
	case StateReady:
	}

	if b.paperCount > 0 {
		return b.styles.Normal.Render(fmt.Sprintf("%d papers", b.paperCount))
	}
	return b.styles.Muted.Render("Ready")
}

func (b *Bar) renderHints() string {
	hints := make([]string, 0, len(b.hints))
	for _, binding := range b.hints {
		h := binding.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the reported state and its message.
func (b *Bar) SetState(state State, message string) {
	b.state = state
	b.message = message
}

// State returns the reported state.
func (b *Bar) State() State { return b.state }

// Message returns the message shown with the state.
func (b *Bar) Message() string { return b.message }

// SetPaperCount sets the number of processed papers shown when ready.
func (b *Bar) SetPaperCount(n int) { b.paperCount = n }

// PaperCount returns the paper count.
func (b *Bar) PaperCount() int { return b.paperCount }

// SetHints replaces the key hints on the right side.
func (b *Bar) SetHints(bindings []key.Binding) { b.hints = bindings }

// SetWidth sets the rendered width.
func (b *Bar) SetWidth(width int) { b.width = width }

// Width returns the rendered width.
func (b *Bar) Width() int { return b.width }

// Clear returns the bar to the ready state without a message.
func (b *Bar) Clear() {
	b.state = StateReady
	b.message = ""
}

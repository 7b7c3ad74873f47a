// Package input provides the URL entry field.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui/styles"
)

const (
	placeholder = "https://arxiv.org/abs/1706.03762"
	charLimit   = 2048
)

// URLInput wraps a text input for paper URLs.
type URLInput struct {
	styles *styles.Styles
	input  textinput.Model
	width  int
}

// NewURLInput creates a focused URL input.
func NewURLInput(s *styles.Styles) *URLInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	ti.Prompt = "URL: "
	ti.PromptStyle = s.Label
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	return &URLInput{styles: s, input: ti, width: 80}
}

// Update forwards messages to the text input.
func (u *URLInput) Update(msg tea.Msg) (*URLInput, tea.Cmd) {
	var cmd tea.Cmd
	u.input, cmd = u.input.Update(msg)
	return u, cmd
}

// View renders the input inside a border.
func (u *URLInput) View() string {
	return u.styles.InputField.Width(u.width - 2).Render(u.input.View())
}

// Value returns the trimmed URL.
func (u *URLInput) Value() string {
	return strings.TrimSpace(u.input.Value())
}

// SetValue replaces the input text.
func (u *URLInput) SetValue(v string) {
	u.input.SetValue(v)
}

// Reset clears the input and focuses it.
func (u *URLInput) Reset() tea.Cmd {
	u.input.Reset()
	return u.Focus()
}

// Focus gives the input keyboard focus.
func (u *URLInput) Focus() tea.Cmd {
	return u.input.Focus()
}

// Blur removes keyboard focus.
func (u *URLInput) Blur() {
	u.input.Blur()
}

// Focused reports whether the input has focus.
func (u *URLInput) Focused() bool {
	return u.input.Focused()
}

// SetWidth sets the rendered width.
func (u *URLInput) SetWidth(width int) {
	u.width = width
	u.input.Width = max(width-10, 10)
}

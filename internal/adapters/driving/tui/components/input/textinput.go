// Package input provides the query box of the search window.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/styles"
)

// QueryInput wraps a bubbles textinput. Text before the first "-" is the
// name filter; the rest is parsed as directives.
type QueryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewQueryInput creates a focused query box.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "name -type joint -visible"
	ti.CharLimit = 512
	ti.Width = 50
	ti.Focus()

	return &QueryInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init returns the cursor blink command.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards a message to the textinput and reports whether the
// value changed.
func (q *QueryInput) Update(msg tea.Msg) (changed bool, cmd tea.Cmd) {
	before := q.textinput.Value()
	q.textinput, cmd = q.textinput.Update(msg)
	return q.textinput.Value() != before, cmd
}

// View renders the query box.
func (q *QueryInput) View() string {
	style := q.styles.InputField
	if q.textinput.Focused() {
		style = q.styles.InputFocused
	}
	return style.Width(q.width - 2).Render(q.textinput.View())
}

// Value returns the query text.
func (q *QueryInput) Value() string {
	return q.textinput.Value()
}

// SetValue replaces the query text.
func (q *QueryInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// Focus gives the box keyboard focus.
func (q *QueryInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus.
func (q *QueryInput) Blur() {
	q.textinput.Blur()
}

// Focused reports whether the box has focus.
func (q *QueryInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth sets the outer width of the box.
func (q *QueryInput) SetWidth(width int) {
	q.width = max(width, 24)
	// border, padding and prompt
	q.textinput.Width = q.width - 8
}

// Width returns the outer width.
func (q *QueryInput) Width() int {
	return q.width
}

// Package status provides the status bar of the search window.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/styles"
)

// State represents what the search window is doing.
type State string

const (
	StateReady   State = "ready"
	StateListing State = "listing"
	StateError   State = "error"
)

// Bar shows the result summary on the left and key hints on the right.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	summary string
	message string
	focus   messages.Focus
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := max(s.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateListing:
		return s.styles.Muted.Render("Listing… " + s.summary)
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateReady:
	}
	if s.message != "" {
		return s.styles.Normal.Render(s.summary) + s.styles.Muted.Render("  "+s.message)
	}
	return s.styles.Normal.Render(s.summary)
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.focus {
	case messages.FocusOptions:
		bindings = s.keymap.OptionsHelp()
	case messages.FocusList:
		bindings = s.keymap.ListHelp()
	default:
		bindings = s.keymap.InputHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetSummary sets the result summary, e.g. "12 ( -cameras )".
func (s *Bar) SetSummary(summary string) {
	s.summary = summary
}

// Summary returns the result summary.
func (s *Bar) Summary() string {
	return s.summary
}

// SetMessage sets a transient message or the error text.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetFocus selects which key hints are shown.
func (s *Bar) SetFocus(f messages.Focus) {
	s.focus = f
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to its default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.summary = ""
}

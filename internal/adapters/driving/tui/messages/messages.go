// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quicksearch/internal/core/domain"
)

// QueryDebounced fires once typing has paused. ID correlates with the
// view's debounce counter so only the latest keystroke takes effect.
type QueryDebounced struct {
	ID    int
	Query string
}

// Debounce returns a command that sends QueryDebounced after delay.
func Debounce(id int, query string, delay time.Duration) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg {
			return QueryDebounced{ID: id, Query: query}
		}
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return QueryDebounced{ID: id, Query: query}
	})
}

// ListingDone carries a corpus listing back to the dispatch loop.
type ListingDone struct {
	Pending  *domain.Pending
	Snapshot domain.Snapshot
	Err      error
}

// SceneChanged is sent when the scene file was edited outside the TUI.
type SceneChanged struct{}

// ModelChanged wraps a result model notification.
type ModelChanged struct {
	Event domain.Event
}

// SelectionChanged is sent after the list selection was rewritten.
type SelectionChanged struct {
	Rows []int
}

// ErrorOccurred reports an error to display.
type ErrorOccurred struct {
	Err error
}

// Quit requests application exit.
type Quit struct{}

// Focus identifies which part of the search window receives keys.
type Focus int

const (
	// FocusInput is the query box.
	FocusInput Focus = iota
	// FocusOptions is the directive toggle row.
	FocusOptions
	// FocusList is the result list.
	FocusList
)

// String returns the focus name.
func (f Focus) String() string {
	switch f {
	case FocusInput:
		return "input"
	case FocusOptions:
		return "options"
	case FocusList:
		return "list"
	default:
		return "unknown"
	}
}

// Next returns the focus after f, wrapping around.
func (f Focus) Next() Focus {
	return (f + 1) % 3
}

// Prev returns the focus before f, wrapping around.
func (f Focus) Prev() Focus {
	return (f + 2) % 3
}

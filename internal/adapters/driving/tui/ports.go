// Package tui provides the interactive quick-search window for quicksearch.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"

	"github.com/custodia-labs/quicksearch/internal/core/ports/driving"
)

// Ports aggregates everything the TUI needs from the core.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Window is the search session shown in the TUI.
	Window driving.SearchWindow

	// Selection keeps list and scene selection in step. Optional.
	Selection driving.SelectionSync

	// Settings supplies debounce and toggle configuration. Optional.
	Settings driving.SettingsService

	// SceneChanges signals outside edits to the scene. Optional.
	SceneChanges <-chan struct{}

	// ReloadScene re-reads the scene after an outside edit. Optional.
	ReloadScene func(ctx context.Context) error
}

// NewPorts creates a new Ports aggregate for a search session.
func NewPorts(window driving.SearchWindow, selection driving.SelectionSync) *Ports {
	return &Ports{
		Window:    window,
		Selection: selection,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Window == nil {
		return ErrMissingSearchWindow
	}
	return nil
}

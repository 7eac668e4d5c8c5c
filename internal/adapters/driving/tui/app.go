package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/quicksearch/internal/core/domain"
	"github.com/custodia-labs/quicksearch/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to the search session.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// settings are the application settings the window was built with.
	settings domain.AppSettings

	// searchView is the quick-search window.
	searchView *search.View

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	settings := domain.DefaultAppSettings()
	if ports.Settings != nil {
		loaded, err := ports.Settings.Get()
		if err != nil {
			logger.Warn("Using default settings: %v", err)
		} else {
			settings = *loaded
		}
	}

	s := styles.DefaultStyles()
	searchView := search.NewView(s, keymap.DefaultKeyMap(), ports.Window, ports.Selection, search.Config{
		Debounce: settings.Search.Debounce,
		Bindings: domain.Bindings(settings.Search.Schema()),
		Reload:   ports.ReloadScene,
	})

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		settings:   settings,
		searchView: searchView,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("quicksearch"),
		a.searchView.Init(),
		a.waitForScene(),
	)
}

// waitForScene blocks on the next scene change signal. It is re-armed
// after every SceneChanged.
func (a *App) waitForScene() tea.Cmd {
	ch := a.ports.SceneChanges
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return messages.SceneChanged{}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case messages.Quit:
		return a, tea.Quit

	case messages.SceneChanged:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, tea.Batch(cmd, a.waitForScene())
	}

	a.searchView, cmd = a.searchView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	return a.searchView.View()
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	defer a.Close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Close detaches the window from the search session.
func (a *App) Close() {
	a.searchView.Close()
}

// Query returns the current query box text.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Settings returns the settings the window was built with.
func (a *App) Settings() domain.AppSettings {
	return a.settings
}

// SearchView returns the quick-search view.
func (a *App) SearchView() *search.View {
	return a.searchView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.searchView.Err()
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
}

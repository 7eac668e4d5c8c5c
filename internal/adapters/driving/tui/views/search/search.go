// Package search provides the quick-search view: a query box, a row of
// directive toggles and the incrementally grown result list.
package search

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/components/options"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quicksearch/internal/core/domain"
	"github.com/custodia-labs/quicksearch/internal/core/ports/driving"
	"github.com/custodia-labs/quicksearch/internal/logger"
)

// Config holds view settings that come from the application settings.
type Config struct {
	// Debounce delays query evaluation while typing. Zero evaluates on
	// every keystroke.
	Debounce time.Duration

	// Bindings lists the directive toggles to show.
	Bindings []domain.ControlBinding

	// Reload, when set, re-reads the scene before a refresh triggered by
	// an outside edit.
	Reload func(ctx context.Context) error
}

// View is the quick-search window.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	options   *options.Bar
	list      *list.NodeList
	statusbar *status.Bar

	window    driving.SearchWindow
	selection driving.SelectionSync
	ctx       context.Context
	cfg       Config
	unsub     func()

	debounceID int
	focus      messages.Focus
	showHelp   bool

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a search view over window. selection may be nil.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	window driving.SearchWindow,
	selection driving.SelectionSync,
	cfg Config,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewQueryInput(s),
		statusbar: status.NewBar(s, km),
		window:    window,
		selection: selection,
		ctx:       context.Background(),
		cfg:       cfg,
		width:     80,
		height:    24,
		focus:     messages.FocusInput,
	}

	var value options.ValueFunc
	if window != nil {
		value = window.DirectiveValue
		v.list = list.NewNodeList(s, window)
		v.unsub = window.Subscribe(v.onModelEvent)
	} else {
		v.list = list.NewNodeList(s, nil)
	}
	v.options = options.NewBar(s, cfg.Bindings, value)
	v.refresh()
	return v
}

// WithContext sets the context for listing and selection calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Close stops listening to the model.
func (v *View) Close() {
	if v.unsub != nil {
		v.unsub()
		v.unsub = nil
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	if v.window == nil {
		return func() tea.Msg {
			return messages.ErrorOccurred{Err: ErrNoWindow}
		}
	}
	return v.input.Init()
}

// onModelEvent runs synchronously inside the model's notification.
func (v *View) onModelEvent(ev domain.Event) {
	if ev.Kind == domain.EventReset {
		v.list.Reset()
	}
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		cmd = v.handleKeyMsg(msg)

	case messages.QueryDebounced:
		if msg.ID == v.debounceID && v.window != nil {
			cmd = v.start(v.window.Begin(msg.Query))
		}

	case messages.ListingDone:
		if v.window != nil {
			v.apply(v.window.Complete(msg.Pending, msg.Snapshot, msg.Err))
		}

	case messages.SceneChanged:
		cmd = v.reloadScene()

	case messages.ErrorOccurred:
		v.setError(msg.Err)

	default:
		_, cmd = v.input.Update(msg)
	}

	v.refresh()
	return v, cmd
}

// handleKeyMsg processes keyboard input.
//
//nolint:gocyclo // key dispatch
func (v *View) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Quit):
		return func() tea.Msg { return messages.Quit{} }
	case keymap.Matches(keyStr, v.keymap.NextFocus):
		return v.setFocus(v.focus.Next())
	case keymap.Matches(keyStr, v.keymap.PrevFocus):
		return v.setFocus(v.focus.Prev())
	case v.window == nil:
		return nil
	case keymap.Matches(keyStr, v.keymap.Refresh):
		return v.start(v.window.BeginForce())
	case keymap.Matches(keyStr, v.keymap.ResetFilters):
		v.apply(v.window.ResetUserDirectives(v.ctx))
		return nil
	}

	// Arrow keys drive the list from any pane; letters only from the list.
	switch msg.Type { //nolint:exhaustive // only navigation keys
	case tea.KeyUp:
		v.list.MoveUp()
		return nil
	case tea.KeyDown:
		v.list.MoveDown()
		return nil
	case tea.KeyPgUp:
		v.list.PageUp()
		return nil
	case tea.KeyPgDown:
		v.list.PageDown()
		return nil
	}

	switch v.focus {
	case messages.FocusInput:
		return v.handleInputKey(msg)
	case messages.FocusOptions:
		v.handleOptionsKey(keyStr)
	case messages.FocusList:
		v.handleListKey(keyStr)
	}
	return nil
}

func (v *View) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	changed, cmd := v.input.Update(msg)
	if !changed {
		return cmd
	}
	v.debounceID++
	return tea.Batch(cmd, messages.Debounce(v.debounceID, v.input.Value(), v.cfg.Debounce))
}

func (v *View) handleOptionsKey(keyStr string) {
	switch {
	case keymap.Matches(keyStr, v.keymap.Left):
		v.options.Left()
	case keymap.Matches(keyStr, v.keymap.Right):
		v.options.Right()
	case keymap.Matches(keyStr, v.keymap.Toggle):
		binding, ok := v.options.Current()
		if !ok {
			return
		}
		next := domain.Bool(!v.options.Checked(binding.Directive))
		v.apply(v.window.SetUserDirective(v.ctx, binding.Directive, next))
	case keymap.Matches(keyStr, v.keymap.Help):
		v.showHelp = !v.showHelp
	}
}

func (v *View) handleListKey(keyStr string) {
	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(keyStr, v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(keyStr, v.keymap.Toggle):
		rows := v.list.Marked()
		cursor := v.list.Cursor()
		if v.list.IsMarked(cursor) {
			rows = slices.DeleteFunc(rows, func(r int) bool { return r == cursor })
		} else {
			rows = append(rows, cursor)
		}
		v.selectRows(rows)
	case keymap.Matches(keyStr, v.keymap.SelectOnly):
		if _, ok := v.list.CursorItem(); ok {
			v.selectRows([]int{v.list.Cursor()})
		}
	case keymap.Matches(keyStr, v.keymap.Help):
		v.showHelp = !v.showHelp
	}
}

func (v *View) selectRows(rows []int) {
	slices.Sort(rows)
	if v.selection == nil {
		v.list.SetMarked(rows)
		return
	}
	if err := v.selection.SelectRows(v.ctx, rows); err != nil {
		v.setError(err)
		return
	}
	v.statusbar.SetMessage("")
}

func (v *View) setFocus(f messages.Focus) tea.Cmd {
	v.focus = f
	v.statusbar.SetFocus(f)
	v.options.Blur()
	v.input.Blur()

	switch f {
	case messages.FocusInput:
		return v.input.Focus()
	case messages.FocusOptions:
		v.options.Focus()
	case messages.FocusList:
	}
	return nil
}

// start runs a query cycle. Cycles that need a listing hand it to a
// command so the dispatch loop stays responsive.
func (v *View) start(p *domain.Pending) tea.Cmd {
	if p == nil || p.Reentrant() {
		return nil
	}
	if !p.NeedsFetch {
		v.apply(v.window.Complete(p, nil, nil))
		return nil
	}

	v.statusbar.SetState(status.StateListing)
	window, ctx := v.window, v.ctx
	return func() tea.Msg {
		snap, err := window.Fetch(ctx, p)
		return messages.ListingDone{Pending: p, Snapshot: snap, Err: err}
	}
}

// apply reflects a cycle outcome in the status bar.
func (v *View) apply(out domain.Outcome) {
	switch {
	case out.Stale, out.Reentrant:
		return
	case out.Err != nil:
		v.setError(out.Err)
	default:
		v.err = nil
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("")
	}
}

func (v *View) reloadScene() tea.Cmd {
	if v.window == nil {
		return nil
	}
	if v.cfg.Reload != nil {
		if err := v.cfg.Reload(v.ctx); err != nil {
			logger.Warn("Scene reload failed: %v", err)
			v.setError(err)
			return nil
		}
	}
	logger.Debug("Scene changed, relisting")
	return v.start(v.window.BeginForce())
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// refresh pulls derived state from the model after every update.
func (v *View) refresh() {
	if v.window == nil {
		return
	}
	v.statusbar.SetSummary(v.window.StatusText())
	if v.selection != nil {
		v.list.SetMarked(v.selection.SelectedRows())
	}
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections,
		v.styles.Title.Render("Quick Search"),
		v.input.View(),
		v.options.View(),
		"",
		v.list.View(),
	)

	if v.showHelp {
		sections = append(sections, "", v.renderHelp())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderHelp() string {
	columns := make([]string, 0, 4)
	for _, group := range v.keymap.FullHelp() {
		lines := make([]string, 0, len(group))
		for _, b := range group {
			lines = append(lines, helpLine(b))
		}
		columns = append(columns, strings.Join(lines, "\n"))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, spaced(columns)...)
	return v.styles.Border.Padding(0, 1).Render(body)
}

func helpLine(b key.Binding) string {
	h := b.Help()
	return h.Key + "  " + h.Desc
}

func spaced(columns []string) []string {
	out := make([]string, 0, len(columns)*2)
	for i, c := range columns {
		if i > 0 {
			out = append(out, "    ")
		}
		out = append(out, c)
	}
	return out
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	// title, input box, options, blank lines and status bar
	v.list.SetDimensions(width, max(height-9, 1))
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the query box text.
func (v *View) Query() string {
	return v.input.Value()
}

// Focus returns the pane with keyboard focus.
func (v *View) Focus() messages.Focus {
	return v.focus
}

// InputFocused returns whether the query box has focus.
func (v *View) InputFocused() bool {
	return v.focus == messages.FocusInput
}

// DebounceID returns the id of the latest pending keystroke.
func (v *View) DebounceID() int {
	return v.debounceID
}

// List returns the result list component.
func (v *View) List() *list.NodeList {
	return v.list
}

// Options returns the toggle row component.
func (v *View) Options() *options.Bar {
	return v.options
}

// Status returns the status bar component.
func (v *View) Status() *status.Bar {
	return v.statusbar
}

// HelpVisible reports whether the help panel is shown.
func (v *View) HelpVisible() bool {
	return v.showHelp
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

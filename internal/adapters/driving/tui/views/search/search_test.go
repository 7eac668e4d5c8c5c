package search

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quicksearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quicksearch/internal/core/domain"
	"github.com/custodia-labs/quicksearch/internal/core/services"
)

func testNodes() []domain.Node {
	return []domain.Node{
		{Path: "|rig", Type: "transform", Flags: []string{"transforms", "dagObjects"}},
		{Path: "|rig|arm_L", Type: "joint", Inherits: []string{"transform"}, Flags: []string{"transforms", "dagObjects"}},
		{Path: "|rig|arm_R", Type: "joint", Inherits: []string{"transform"}, Flags: []string{"transforms", "dagObjects"}},
		{Path: "|rig|arm_LShape", Type: "mesh", Inherits: []string{"shape"}, Flags: []string{"shapes", "geometry"}},
		{Path: "|key_light", Type: "spotLight", Inherits: []string{"light"}, Flags: []string{"lights"}},
	}
}

type fixture struct {
	view      *View
	model     *services.ResultModel
	scene     *memory.Scene
	selection *services.SelectionAdapter
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	ctx := context.Background()
	scene := memory.NewScene("|", testNodes()...)
	model := services.NewResultModel(scene, domain.NodeSchema())
	sel := services.NewSelectionAdapter(ctx, model, scene)
	if cfg.Bindings == nil {
		cfg.Bindings = domain.Bindings(domain.NodeSchema())
	}

	v := NewView(nil, nil, model, sel, cfg).WithContext(ctx)
	v.SetDimensions(100, 30)
	t.Cleanup(func() {
		v.Close()
		sel.Close()
	})
	return &fixture{view: v, model: model, scene: scene, selection: sel}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// search types query and drives the resulting cycle to completion.
func (f *fixture) search(t *testing.T, query string) {
	t.Helper()

	f.view.input.SetValue(query)
	f.view.debounceID++
	_, cmd := f.view.Update(messages.QueryDebounced{ID: f.view.debounceID, Query: query})
	f.drain(t, cmd)
}

// drain runs a listing command and feeds its result back to the view.
func (f *fixture) drain(t *testing.T, cmd tea.Cmd) {
	t.Helper()

	if cmd == nil {
		return
	}
	msg := cmd()
	done, ok := msg.(messages.ListingDone)
	require.True(t, ok, "expected ListingDone, got %T", msg)
	_, _ = f.view.Update(done)
}

func TestNewView(t *testing.T) {
	f := newFixture(t, Config{})

	assert.True(t, f.view.Ready())
	assert.True(t, f.view.InputFocused())
	assert.Equal(t, messages.FocusInput, f.view.Focus())
	assert.Len(t, f.view.Options().Bindings(), 9)
	assert.Equal(t, "0", f.view.Status().Summary())
}

func TestNewView_NilWindow(t *testing.T) {
	v := NewView(nil, nil, nil, nil, Config{})
	require.NotNil(t, v)

	cmd := v.Init()
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, ErrNoWindow)

	// Keys other than focus changes are ignored without a window.
	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Nil(t, cmd)
}

func TestView_NotReady(t *testing.T) {
	v := NewView(styles.DefaultStyles(), keymap.DefaultKeyMap(), nil, nil, Config{})
	assert.False(t, v.Ready())
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_Update_WindowSize(t *testing.T) {
	f := newFixture(t, Config{})

	_, _ = f.view.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, f.view.Width())
	assert.Equal(t, 40, f.view.Height())
	assert.Equal(t, 31, f.view.List().Height())
}

func TestView_TypingBumpsDebounce(t *testing.T) {
	f := newFixture(t, Config{})

	_, cmd := f.view.Update(runes("a"))
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, f.view.DebounceID())
	assert.Equal(t, "a", f.view.Query())

	_, _ = f.view.Update(runes("r"))
	assert.Equal(t, 2, f.view.DebounceID())
}

func TestView_StaleDebounceIgnored(t *testing.T) {
	f := newFixture(t, Config{})

	_, _ = f.view.Update(runes("a"))
	_, _ = f.view.Update(runes("r"))

	_, cmd := f.view.Update(messages.QueryDebounced{ID: 1, Query: "a"})
	assert.Nil(t, cmd)
	assert.Empty(t, f.model.Query())
}

func TestView_SearchListsMatches(t *testing.T) {
	f := newFixture(t, Config{})

	f.search(t, "arm")

	assert.Equal(t, []string{"|rig|arm_L", "|rig|arm_LShape", "|rig|arm_R"}, f.model.Results(), "corpus order is sorted")
	assert.Equal(t, 3, f.model.RowCount())
	assert.Equal(t, status.StateReady, f.view.Status().State())
	assert.Equal(t, "3", f.view.Status().Summary())
	assert.Contains(t, f.view.View(), "arm_R")
}

func TestView_SearchWithDirective(t *testing.T) {
	f := newFixture(t, Config{})

	f.search(t, "arm -type joint")

	assert.Equal(t, []string{"|rig|arm_L", "|rig|arm_R"}, f.model.Results())
	assert.Equal(t, "2 ( -type joint )", f.view.Status().Summary())
}

func TestView_ListingInFlightShowsState(t *testing.T) {
	f := newFixture(t, Config{})

	f.view.debounceID = 1
	_, cmd := f.view.Update(messages.QueryDebounced{ID: 1, Query: "rig"})
	require.NotNil(t, cmd)
	assert.Equal(t, status.StateListing, f.view.Status().State())

	f.drain(t, cmd)
	assert.Equal(t, status.StateReady, f.view.Status().State())
}

func TestView_SupersededListingDropped(t *testing.T) {
	f := newFixture(t, Config{})

	f.view.debounceID = 1
	_, first := f.view.Update(messages.QueryDebounced{ID: 1, Query: "arm"})
	require.NotNil(t, first)
	f.view.debounceID = 2
	_, second := f.view.Update(messages.QueryDebounced{ID: 2, Query: "key -lights"})
	require.NotNil(t, second)

	f.drain(t, second)
	f.drain(t, first)

	assert.Equal(t, []string{"|key_light"}, f.model.Results())
}

func TestView_ListingError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newFixture(t, Config{})
	f.view.WithContext(ctx)

	f.view.debounceID = 1
	_, cmd := f.view.Update(messages.QueryDebounced{ID: 1, Query: "arm"})
	f.drain(t, cmd)

	require.Error(t, f.view.Err())
	assert.Equal(t, status.StateError, f.view.Status().State())
}

func TestView_FocusCycle(t *testing.T) {
	f := newFixture(t, Config{})

	_, _ = f.view.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, messages.FocusOptions, f.view.Focus())
	assert.True(t, f.view.Options().Focused())
	assert.False(t, f.view.InputFocused())

	_, _ = f.view.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, messages.FocusList, f.view.Focus())

	_, _ = f.view.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, messages.FocusOptions, f.view.Focus())
}

func TestView_ToggleDirective(t *testing.T) {
	f := newFixture(t, Config{})
	f.search(t, "rig")
	require.Len(t, f.model.Results(), 4)

	_, _ = f.view.Update(tea.KeyMsg{Type: tea.KeyTab})
	binding, ok := f.view.Options().Current()
	require.True(t, ok)
	require.Equal(t, "transforms", binding.Directive)

	_, _ = f.view.Update(runes(" "))
	assert.True(t, f.view.Options().Checked("transforms"))
	assert.Equal(t, []string{"|rig", "|rig|arm_L", "|rig|arm_R"}, f.model.Results())

	_, _ = f.view.Update(runes(" "))
	assert.False(t, f.view.Options().Checked("transforms"))
	assert.Len(t, f.model.Results(), 4)
}

func TestView_ToggleOverridesQueryDirective(t *testing.T) {
	f := newFixture(t, Config{})
	f.search(t, "rig -shapes")
	require.Equal(t, []string{"|rig|arm_LShape"}, f.model.Results())

	_, _ = f.view.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, _ = f.view.Update(tea.KeyMsg{Type: tea.KeyRight})
	binding, _ := f.view.Options().Current()
	require.Equal(t, "shapes", binding.Directive)
	require.True(t, f.view.Options().Checked("shapes"))

	_, _ = f.view.Update(runes(" "))
	assert.False(t, f.view.Options().Checked("shapes"))
	assert.Len(t, f.model.Results(), 4)
}

func TestView_ResetFilters(t *testing.T) {
	f := newFixture(t, Config{})
	f.search(t, "rig")

	_, _ = f.view.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, _ = f.view.Update(runes(" "))
	require.Len(t, f.model.Results(), 3)

	_, _ = f.view.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Len(t, f.model.Results(), 4)
	assert.Equal(t, "4", f.view.Status().Summary())
}

func TestView_Refresh(t *testing.T) {
	f := newFixture(t, Config{})
	f.search(t, "arm")
	require.Len(t, f.model.Results(), 3)

	f.scene.Add(domain.Node{Path: "|arm_ctrl", Type: "transform", Flags: []string{"transforms"}})

	_, cmd := f.view.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	f.drain(t, cmd)
	assert.Len(t, f.model.Results(), 4)
}

func TestView_SceneChangedReloads(t *testing.T) {
	reloads := 0
	var fx *fixture
	fx = newFixture(t, Config{
		Reload: func(context.Context) error {
			reloads++
			fx.scene.Add(domain.Node{Path: "|arm_ik", Type: "ikHandle"})
			return nil
		},
	})
	fx.search(t, "arm")

	_, cmd := fx.view.Update(messages.SceneChanged{})
	fx.drain(t, cmd)

	assert.Equal(t, 1, reloads)
	assert.Contains(t, fx.model.Results(), "|arm_ik")
}

func TestView_SceneReloadError(t *testing.T) {
	f := newFixture(t, Config{
		Reload: func(context.Context) error { return errors.New("scene file truncated") },
	})

	_, cmd := f.view.Update(messages.SceneChanged{})
	assert.Nil(t, cmd)
	require.Error(t, f.view.Err())
	assert.Contains(t, f.view.Status().Message(), "truncated")
}

func TestView_ListSelection(t *testing.T) {
	f := newFixture(t, Config{})
	f.search(t, "arm")

	_, _ = f.view.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, messages.FocusList, f.view.Focus())

	// space marks the cursor row and pushes it to the scene
	_, _ = f.view.Update(runes(" "))
	assert.Equal(t, []int{0}, f.selection.SelectedRows())
	assert.True(t, f.view.List().IsMarked(0))
	selected, err := f.scene.Selected(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"|rig|arm_L"}, selected)

	// j then space adds the second row
	_, _ = f.view.Update(runes("j"))
	_, _ = f.view.Update(runes(" "))
	assert.Equal(t, []int{0, 1}, f.selection.SelectedRows())

	// space again removes it
	_, _ = f.view.Update(runes(" "))
	assert.Equal(t, []int{0}, f.selection.SelectedRows())

	// enter selects only the cursor row
	_, _ = f.view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []int{1}, f.selection.SelectedRows())
	selected, err = f.scene.Selected(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"|rig|arm_LShape"}, selected)
}

func TestView_HostSelectionShownAfterSearch(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.scene.Select(context.Background(), []string{"|rig|arm_R"}))

	f.search(t, "arm")

	assert.Equal(t, []int{2}, f.selection.SelectedRows())
	assert.True(t, f.view.List().IsMarked(2))
	assert.False(t, f.view.List().IsMarked(1))
}

func TestView_ArrowKeysMoveListFromInput(t *testing.T) {
	f := newFixture(t, Config{})
	f.search(t, "arm")

	_, _ = f.view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, f.view.List().Cursor())
	assert.True(t, f.view.InputFocused())

	// j types into the query box while it has focus
	_, _ = f.view.Update(runes("j"))
	assert.Equal(t, 1, f.view.List().Cursor())
	assert.Equal(t, "armj", f.view.Query())
}

func TestView_ResetMovesCursorToTop(t *testing.T) {
	f := newFixture(t, Config{})
	f.search(t, "arm")

	_, _ = f.view.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 1, f.view.List().Cursor())

	f.search(t, "rig")
	assert.Equal(t, 0, f.view.List().Cursor())
}

func TestView_HelpToggle(t *testing.T) {
	f := newFixture(t, Config{})

	// ? is a query character while typing
	_, _ = f.view.Update(runes("?"))
	assert.False(t, f.view.HelpVisible())

	_, _ = f.view.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, _ = f.view.Update(runes("?"))
	assert.True(t, f.view.HelpVisible())
	assert.Contains(t, f.view.View(), "toggle")
}

func TestView_QuitKey(t *testing.T) {
	f := newFixture(t, Config{})

	_, cmd := f.view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(messages.Quit)
	assert.True(t, ok)
}

func TestView_ErrorMessage(t *testing.T) {
	f := newFixture(t, Config{})

	_, _ = f.view.Update(messages.ErrorOccurred{Err: errors.New("boom")})
	assert.Equal(t, status.StateError, f.view.Status().State())
	assert.Equal(t, "boom", f.view.Status().Message())
}

func TestView_CloseStopsUpdates(t *testing.T) {
	f := newFixture(t, Config{})
	f.search(t, "arm")
	_, _ = f.view.Update(tea.KeyMsg{Type: tea.KeyDown})

	f.view.Close()
	f.model.SetQuery(context.Background(), "rig")
	assert.Equal(t, 1, f.view.List().Cursor())
}

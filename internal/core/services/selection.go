package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/quicksearch/internal/core/domain"
	"github.com/custodia-labs/quicksearch/internal/core/ports/driven"
	"github.com/custodia-labs/quicksearch/internal/core/ports/driving"
	"github.com/custodia-labs/quicksearch/internal/logger"
)

// Ensure SelectionAdapter implements the interface.
var _ driving.SelectionSync = (*SelectionAdapter)(nil)

// SelectionAdapter keeps the list selection of a ResultModel in step with
// the host scene selection, in both directions.
type SelectionAdapter struct {
	ctx      context.Context
	model    driving.ResultModel
	host     driven.SelectionHost
	selected map[int]struct{}
	// suppress is set while the adapter itself rewrites the list selection,
	// so the rewrite is not written back to the host.
	suppress bool
	onChange func(rows []int)
	cancel   func()
}

// SelectionOption configures a SelectionAdapter.
type SelectionOption func(*SelectionAdapter)

// OnSelectionChanged registers a callback run whenever the list selection
// changes, including programmatic changes made by Sync.
func OnSelectionChanged(fn func(rows []int)) SelectionOption {
	return func(a *SelectionAdapter) {
		a.onChange = fn
	}
}

// NewSelectionAdapter subscribes to model notifications. host may be nil,
// in which case selection stays local to the list.
func NewSelectionAdapter(
	ctx context.Context,
	model driving.ResultModel,
	host driven.SelectionHost,
	opts ...SelectionOption,
) *SelectionAdapter {
	a := &SelectionAdapter{
		ctx:      ctx,
		model:    model,
		host:     host,
		selected: make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.cancel = model.Subscribe(a.handle)
	return a
}

// Close stops listening to the model.
func (a *SelectionAdapter) Close() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *SelectionAdapter) handle(ev domain.Event) {
	if ev.Kind == domain.EventStatusChanged {
		return
	}
	if err := a.Sync(a.ctx); err != nil {
		logger.Warn("Selection sync failed: %v", err)
	}
}

// Sync re-derives the list selection from the host selection. Only
// displayed rows can be selected.
func (a *SelectionAdapter) Sync(ctx context.Context) error {
	var ids []string
	if a.host != nil {
		var err error
		ids, err = a.host.Selected(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrSelectionFailed, err)
		}
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	a.suppress = true
	defer func() { a.suppress = false }()

	a.selected = make(map[int]struct{})
	for row := 0; row < a.model.RowCount(); row++ {
		id, _ := a.model.ItemAt(row)
		if _, ok := wanted[id]; ok {
			a.selected[row] = struct{}{}
		}
	}
	logger.Debug("Selection synced: %d rows", len(a.selected))
	a.notify()
	return nil
}

// SelectRows replaces the list selection with rows and pushes the matching
// identifiers to the host. Out-of-range rows are skipped. Calls made while
// the adapter is syncing are ignored.
func (a *SelectionAdapter) SelectRows(ctx context.Context, rows []int) error {
	if a.suppress {
		return nil
	}

	a.selected = make(map[int]struct{}, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		id, ok := a.model.ItemAt(row)
		if !ok {
			continue
		}
		if _, dup := a.selected[row]; dup {
			continue
		}
		a.selected[row] = struct{}{}
		ids = append(ids, id)
	}

	a.suppress = true
	a.notify()
	a.suppress = false

	if a.host == nil {
		return nil
	}
	if err := a.host.Select(ctx, ids); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSelectionFailed, err)
	}
	return nil
}

// SelectedRows returns the selected rows in ascending order.
func (a *SelectionAdapter) SelectedRows() []int {
	rows := make([]int, 0, len(a.selected))
	for row := range a.selected {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	return rows
}

// IsSelected reports whether row is selected.
func (a *SelectionAdapter) IsSelected(row int) bool {
	_, ok := a.selected[row]
	return ok
}

func (a *SelectionAdapter) notify() {
	if a.onChange != nil {
		a.onChange(a.SelectedRows())
	}
}

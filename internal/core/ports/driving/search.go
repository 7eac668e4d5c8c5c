package driving

import (
	"context"

	"github.com/custodia-labs/quicksearch/internal/core/domain"
)

// ResultModel is the incremental search result model driven by the host UI.
// All methods must be called from the host's single dispatch thread.
type ResultModel interface {
	// SetQuery sets the query string and updates results.
	SetQuery(ctx context.Context, query string) domain.Outcome

	// ForceUpdate refetches the corpus and resets the window unconditionally.
	ForceUpdate(ctx context.Context) domain.Outcome

	// SetUserDirective sets a user-layer directive and refreshes on change.
	SetUserDirective(ctx context.Context, name string, value domain.Value) domain.Outcome

	// ResetUserDirectives clears the user layer.
	ResetUserDirectives(ctx context.Context) domain.Outcome

	// DirectiveValue returns the effective value for a directive name or alias.
	DirectiveValue(name string) (domain.Value, bool)

	// RowCount returns the number of displayed rows.
	RowCount() int

	// ItemAt returns the identifier at a displayed row.
	ItemAt(row int) (string, bool)

	// DisplayAt returns the display text at a displayed row.
	DisplayAt(row int) (string, bool)

	// CanGrow reports whether more rows can be displayed.
	CanGrow() bool

	// Grow displays the next page of rows.
	Grow() (first, last int, ok bool)

	// StatusText summarises the result count and active directives.
	StatusText() string

	// Results returns the full result set.
	Results() []string

	// Subscribe registers a change handler and returns its cancel func.
	Subscribe(fn func(domain.Event)) (cancel func())
}

// SelectionSync keeps list selection and host selection in step.
type SelectionSync interface {
	// SelectRows pushes user-selected rows to the host selection.
	SelectRows(ctx context.Context, rows []int) error

	// SelectedRows returns the selected rows in ascending order.
	SelectedRows() []int

	// Sync re-derives list selection from the host selection.
	Sync(ctx context.Context) error
}

// QueryCycle splits a query change into steps so the listing can run off
// the dispatch thread. Begin and Complete run on the dispatch thread; Fetch
// may run anywhere. A completion for a superseded cycle is dropped.
type QueryCycle interface {
	// Begin starts a cycle for query.
	Begin(query string) *domain.Pending

	// BeginForce starts a forced cycle for the current query.
	BeginForce() *domain.Pending

	// Fetch lists the corpus for a cycle that needs it.
	Fetch(ctx context.Context, p *domain.Pending) (domain.Snapshot, error)

	// Complete applies the listing and notifies subscribers.
	Complete(p *domain.Pending, snap domain.Snapshot, err error) domain.Outcome
}

// SearchWindow is everything an interactive host needs from a session.
type SearchWindow interface {
	ResultModel
	QueryCycle
}

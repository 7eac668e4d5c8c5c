package services

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/quicksearch/internal/core/domain"
	"github.com/custodia-labs/quicksearch/internal/core/ports/driven"
	"github.com/custodia-labs/quicksearch/internal/core/ports/driving"
	"github.com/custodia-labs/quicksearch/internal/logger"
)

// Ensure ResultModel implements the interface.
var _ driving.SearchWindow = (*ResultModel)(nil)

// ResultModel owns the query, the corpus and the displayed window of
// matching identifiers. It is not safe for concurrent use: every method runs
// on the host's dispatch thread. Listing may run elsewhere through
// Begin/Fetch/Complete.
type ResultModel struct {
	parser    *QueryParser
	filters   *FilterState
	corpus    *Corpus
	formatter domain.Formatter
	window    domain.Window

	query   string
	body    string
	results []string
	lastErr error

	// generation increases with every query cycle; completions carrying
	// an older generation are dropped.
	generation uint64

	listeners   []listener
	nextID      int
	dispatching bool
}

type listener struct {
	id int
	fn func(domain.Event)
}

// ModelOption configures a ResultModel.
type ModelOption func(*ResultModel)

// WithFormatter sets the display formatter.
func WithFormatter(f domain.Formatter) ModelOption {
	return func(m *ResultModel) {
		if f != nil {
			m.formatter = f
		}
	}
}

// WithWindow sets the initial row count and page size.
func WithWindow(initial, pageSize int) ModelOption {
	return func(m *ResultModel) {
		m.window = domain.NewWindow(initial, pageSize)
	}
}

// WithSettings applies window, separator and schema settings.
func WithSettings(s domain.SearchSettings) ModelOption {
	return func(m *ResultModel) {
		m.window = domain.NewWindow(s.InitialCount, s.PageSize)
		m.formatter = domain.PathFormatter{Separator: s.Separator}
		schema := s.Schema()
		m.parser = NewQueryParser(schema)
		m.filters = NewFilterState(schema)
	}
}

// NewResultModel creates a model listing its corpus through lister.
func NewResultModel(lister driven.Lister, schema domain.Schema, opts ...ModelOption) *ResultModel {
	m := &ResultModel{
		parser:    NewQueryParser(schema),
		filters:   NewFilterState(schema),
		corpus:    NewCorpus(lister),
		formatter: domain.PathFormatter{Separator: domain.DefaultSeparator},
		window:    domain.NewWindow(domain.DefaultInitialCount, domain.DefaultPageSize),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadNodeTypes restricts typed directive values to the catalog's types.
func (m *ResultModel) LoadNodeTypes(ctx context.Context, catalog driven.TypeCatalog) error {
	return m.parser.LoadTypes(ctx, catalog)
}

// SetQuery sets the query, refetches the corpus if the effective directive
// set changed, and recomputes the results. The window is reset and
// subscribers notified only when the results changed.
func (m *ResultModel) SetQuery(ctx context.Context, query string) domain.Outcome {
	return m.run(ctx, m.Begin(query))
}

// ForceUpdate refetches the corpus, recomputes the results and resets the
// window regardless of whether anything appears to have changed.
func (m *ResultModel) ForceUpdate(ctx context.Context) domain.Outcome {
	return m.run(ctx, m.begin(m.query, true))
}

// SetUserDirective sets a user-layer directive. A change forces an update.
func (m *ResultModel) SetUserDirective(ctx context.Context, name string, value domain.Value) domain.Outcome {
	if m.dispatching {
		return reentrant("SetUserDirective")
	}
	if !m.filters.SetUser(name, value) {
		return domain.Outcome{}
	}
	logger.Debug("User directive %s = %q", name, domain.Token(name, value))
	return m.ForceUpdate(ctx)
}

// ResetUserDirectives clears the user layer. A change forces an update.
func (m *ResultModel) ResetUserDirectives(ctx context.Context) domain.Outcome {
	if m.dispatching {
		return reentrant("ResetUserDirectives")
	}
	if !m.filters.ResetUser() {
		return domain.Outcome{}
	}
	return m.ForceUpdate(ctx)
}

// Begin starts a query cycle: it stores the query, re-parses it and
// replaces the query-derived layer. The caller lists the corpus with
// Fetch when NeedsFetch is set and hands the result to Complete.
// Starting a new cycle supersedes any earlier Pending.
func (m *ResultModel) Begin(query string) *domain.Pending {
	return m.begin(query, false)
}

// BeginForce starts a forced cycle for the current query.
func (m *ResultModel) BeginForce() *domain.Pending {
	return m.begin(m.query, true)
}

func (m *ResultModel) begin(query string, force bool) *domain.Pending {
	if m.dispatching {
		return domain.ReentrantPending(query)
	}

	logger.Section("Query Change")
	m.generation++
	m.query = query

	parsed := m.parser.Parse(query, m.filters.User())
	m.body = parsed.Body
	m.filters.SetQueryDerived(parsed.Directives)
	effective := m.filters.Effective()

	p := domain.NewPending(m.generation, force, query, effective)
	switch {
	case force:
		p.NeedsFetch = true
	case m.idle():
		logger.Debug("Idle query, corpus not needed")
	default:
		p.NeedsFetch = m.corpus.Stale(effective)
	}
	logger.Debug("Query %q: body=%q directives=%q fetch=%t", query, m.body, effective.String(), p.NeedsFetch)
	return p
}

// Fetch lists the corpus for p. It does not touch model state and may be
// called off the dispatch thread.
func (m *ResultModel) Fetch(ctx context.Context, p *domain.Pending) (domain.Snapshot, error) {
	if p == nil || !p.NeedsFetch || p.Reentrant() {
		return nil, nil
	}
	return m.corpus.Fetch(ctx, p.Directives)
}

// Complete finishes a query cycle with the listing produced by Fetch.
// Completions superseded by a newer cycle are discarded.
func (m *ResultModel) Complete(p *domain.Pending, snap domain.Snapshot, err error) domain.Outcome {
	switch {
	case p == nil:
		return domain.Outcome{}
	case p.Reentrant() || m.dispatching:
		return reentrant("Complete")
	case p.Generation() != m.generation:
		logger.Debug("Dropping stale completion for %q", p.Query)
		return domain.Outcome{Stale: true}
	}

	var out domain.Outcome
	if p.NeedsFetch {
		m.corpus.Install(p.Directives, snap, err)
		m.lastErr = err
		out.Refetched = true
		out.Err = err
	}

	next := m.filter()
	changed := p.Forced() || !slices.Equal(next, m.results)
	m.results = next

	switch {
	case changed:
		m.window.Reset(len(m.results))
		out.Changed = true
		logger.Info("Results: %d (showing %d)", len(m.results), m.window.Displayed)
		m.emit(domain.Event{Kind: domain.EventReset})
	case out.Refetched:
		m.emit(domain.Event{Kind: domain.EventStatusChanged})
	}
	return out
}

func (m *ResultModel) run(ctx context.Context, p *domain.Pending) domain.Outcome {
	if p.Reentrant() {
		return reentrant("SetQuery/ForceUpdate")
	}
	snap, err := m.Fetch(ctx, p)
	return m.Complete(p, snap, err)
}

// idle reports whether the search box is effectively empty.
func (m *ResultModel) idle() bool {
	return strings.TrimSpace(m.body) == "" && !m.filters.HasActive()
}

// filter computes the result set from the corpus and the query body.
func (m *ResultModel) filter() []string {
	if m.idle() {
		return []string{}
	}
	needle := strings.ToLower(strings.TrimSpace(m.body))
	snap := m.corpus.Snapshot()
	out := make([]string, 0, len(snap))
	for _, id := range snap {
		if strings.Contains(strings.ToLower(id), needle) {
			out = append(out, id)
		}
	}
	return out
}

// RowCount returns the number of displayed rows.
func (m *ResultModel) RowCount() int {
	return m.window.Displayed
}

// CanGrow reports whether results remain beyond the displayed rows.
func (m *ResultModel) CanGrow() bool {
	return m.window.CanGrow(len(m.results))
}

// Grow displays the next page and notifies subscribers of the inserted
// range [first, last). It is a no-op when nothing remains.
func (m *ResultModel) Grow() (first, last int, ok bool) {
	if m.dispatching {
		logger.Debug("Ignoring Grow from inside a notification")
		return m.window.Displayed, m.window.Displayed, false
	}
	first, last, ok = m.window.Grow(len(m.results))
	if ok {
		m.emit(domain.Event{Kind: domain.EventRowsInserted, First: first, Last: last})
	}
	return first, last, ok
}

// ItemAt returns the identifier at a displayed row.
func (m *ResultModel) ItemAt(row int) (string, bool) {
	if row < 0 || row >= m.window.Displayed {
		return "", false
	}
	return m.results[row], true
}

// DisplayAt returns the display text at a displayed row.
func (m *ResultModel) DisplayAt(row int) (string, bool) {
	id, ok := m.ItemAt(row)
	if !ok {
		return "", false
	}
	return m.formatter.Display(id), true
}

// RowOf returns the displayed row of an identifier.
func (m *ResultModel) RowOf(id string) (int, bool) {
	for row := 0; row < m.window.Displayed; row++ {
		if m.results[row] == id {
			return row, true
		}
	}
	return -1, false
}

// StatusText returns the result count followed by the active
// non-persistent directives, e.g. "12 ( -cameras -type joint )".
func (m *ResultModel) StatusText() string {
	count := strconv.Itoa(len(m.results))
	tokens := m.filters.Active().Tokens()
	if len(tokens) == 0 {
		return count
	}
	return count + " ( " + strings.Join(tokens, " ") + " )"
}

// Results returns a copy of the full result set.
func (m *ResultModel) Results() []string {
	return slices.Clone(m.results)
}

// Query returns the current query string.
func (m *ResultModel) Query() string {
	return m.query
}

// Body returns the free-text part of the current query.
func (m *ResultModel) Body() string {
	return m.body
}

// Filters returns the filter state.
func (m *ResultModel) Filters() *FilterState {
	return m.filters
}

// Corpus returns the cached corpus.
func (m *ResultModel) Corpus() *Corpus {
	return m.corpus
}

// DirectiveValue returns the effective value for a directive name or alias.
func (m *ResultModel) DirectiveValue(name string) (domain.Value, bool) {
	return m.filters.Value(name)
}

// LastError returns the error of the most recent corpus listing, if any.
func (m *ResultModel) LastError() error {
	return m.lastErr
}

// Subscribe registers fn for change notifications. Handlers run
// synchronously; calls back into SetQuery, ForceUpdate, Grow or Complete
// from a handler are ignored.
func (m *ResultModel) Subscribe(fn func(domain.Event)) (cancel func()) {
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listener{id: id, fn: fn})
	return func() {
		m.listeners = slices.DeleteFunc(m.listeners, func(l listener) bool { return l.id == id })
	}
}

func (m *ResultModel) emit(ev domain.Event) {
	m.dispatching = true
	defer func() { m.dispatching = false }()
	for _, l := range slices.Clone(m.listeners) {
		l.fn(ev)
	}
}

func reentrant(op string) domain.Outcome {
	logger.Debug("Ignoring %s from inside a notification", op)
	return domain.Outcome{Reentrant: true}
}

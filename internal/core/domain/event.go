package domain

// EventKind identifies a result model notification.
type EventKind int

const (
	// EventReset means the result set was replaced and the window reset.
	EventReset EventKind = iota

	// EventRowsInserted means rows [First, Last) were appended to the window.
	EventRowsInserted

	// EventStatusChanged means the corpus was relisted but the results did
	// not change. Only the status text needs redrawing.
	EventStatusChanged
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventReset:
		return "reset"
	case EventRowsInserted:
		return "rows_inserted"
	case EventStatusChanged:
		return "status_changed"
	default:
		return "unknown"
	}
}

// Event is a change notification raised by the result model.
type Event struct {
	Kind EventKind

	// First and Last bound the inserted rows, half-open. Zero for resets.
	First int
	Last  int
}

// Outcome reports what one query-change cycle did.
type Outcome struct {
	// Refetched is true when the listing collaborator was called.
	Refetched bool

	// Changed is true when the change notification fired.
	Changed bool

	// Stale is true when an asynchronous completion was superseded and dropped.
	Stale bool

	// Reentrant is true when the call came from inside a notification
	// handler and was ignored.
	Reentrant bool

	// Err carries a listing failure. The results degrade to empty.
	Err error
}

// Pending is a query cycle waiting for its corpus listing. It is created
// by the result model and handed back to it on completion.
type Pending struct {
	generation uint64
	force      bool
	reentrant  bool

	// Query is the query string the cycle was started with.
	Query string

	// Directives is the effective set to list with.
	Directives Directives

	// NeedsFetch is true when the corpus must be listed before completion.
	NeedsFetch bool
}

// NewPending creates a cycle for generation.
func NewPending(generation uint64, force bool, query string, directives Directives) *Pending {
	return &Pending{generation: generation, force: force, Query: query, Directives: directives}
}

// ReentrantPending creates an inert cycle for a call made from inside a
// notification handler.
func ReentrantPending(query string) *Pending {
	return &Pending{reentrant: true, Query: query}
}

// Generation returns the cycle number.
func (p *Pending) Generation() uint64 { return p.generation }

// Forced reports whether the cycle was started by a forced update.
func (p *Pending) Forced() bool { return p.force }

// Reentrant reports whether the cycle is inert.
func (p *Pending) Reentrant() bool { return p.reentrant }

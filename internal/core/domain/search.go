package domain

import "strings"

// Default window sizes of the result list.
const (
	// DefaultInitialCount is the number of rows shown after a reset.
	DefaultInitialCount = 100

	// DefaultPageSize is the number of rows added by each Grow.
	DefaultPageSize = 25

	// DefaultSeparator separates path segments in node identifiers.
	DefaultSeparator = "|"

	// FlagIntroducer starts the directive segment of a query.
	FlagIntroducer = "-"
)

// Snapshot is one listing of the corpus, sorted ascending.
// It is replaced wholesale and never mutated after construction.
type Snapshot []string

// IgnoredToken records a query token the parser dropped.
type IgnoredToken struct {
	// Token is the raw token text.
	Token string

	// Reason is one of ErrUnknownDirective, ErrInvalidValue or ErrUnexpectedToken.
	Reason error
}

// ParseResult is the outcome of parsing a query string. Parsing never fails;
// bad tokens end up in Ignored.
type ParseResult struct {
	// Body is the free-text part of the query, untrimmed.
	Body string

	// Directives holds the directives parsed from the flag segment.
	Directives Directives

	// Ignored lists tokens that did not take effect.
	Ignored []IgnoredToken
}

// Formatter renders an identifier for display.
type Formatter interface {
	Display(id string) string
}

// PathFormatter displays the last segment of a separator delimited path.
type PathFormatter struct {
	Separator string
}

// Display returns the substring after the last separator.
func (f PathFormatter) Display(id string) string {
	sep := f.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	if i := strings.LastIndex(id, sep); i >= 0 {
		return id[i+len(sep):]
	}
	return id
}

// Window is the materialised prefix of a result set.
type Window struct {
	// Displayed is the number of rows currently exposed to the view.
	Displayed int

	// Initial is the row count after a reset.
	Initial int

	// PageSize is the number of rows added per Grow.
	PageSize int
}

// NewWindow returns a window with the given sizes, falling back to defaults
// for non-positive values.
func NewWindow(initial, pageSize int) Window {
	if initial <= 0 {
		initial = DefaultInitialCount
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Window{Initial: initial, PageSize: pageSize}
}

// Reset sets Displayed to min(total, Initial).
func (w *Window) Reset(total int) {
	w.Displayed = min(total, w.Initial)
}

// CanGrow reports whether rows remain beyond the displayed prefix.
func (w *Window) CanGrow(total int) bool {
	return w.Displayed < total
}

// Grow advances Displayed by min(PageSize, remaining) and returns the
// half-open range of new rows. ok is false when nothing was added.
func (w *Window) Grow(total int) (first, last int, ok bool) {
	if !w.CanGrow(total) {
		return w.Displayed, w.Displayed, false
	}
	first = w.Displayed
	w.Displayed += min(w.PageSize, total-w.Displayed)
	return first, w.Displayed, true
}

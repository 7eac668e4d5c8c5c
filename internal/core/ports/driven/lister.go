package driven

import (
	"context"

	"github.com/custodia-labs/quicksearch/internal/core/domain"
)

// Lister is the host's object listing call.
// Given the effective directive set it returns the full corpus of matching
// node identifiers. Unset directives are omitted from the set, never false.
type Lister interface {
	List(ctx context.Context, directives domain.Directives) ([]string, error)
}

// ListerFunc adapts a plain function to Lister.
type ListerFunc func(ctx context.Context, directives domain.Directives) ([]string, error)

// List calls f.
func (f ListerFunc) List(ctx context.Context, directives domain.Directives) ([]string, error) {
	return f(ctx, directives)
}

// TypeCatalog reports the node type names the host knows about.
// Typed directive values outside this set are discarded by the parser.
type TypeCatalog interface {
	NodeTypes(ctx context.Context) ([]string, error)
}

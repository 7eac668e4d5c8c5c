package driven

import "context"

// SelectionHost exposes the host scene selection.
type SelectionHost interface {
	// Selected returns the identifiers currently selected in the scene.
	Selected(ctx context.Context) ([]string, error)

	// Select replaces the scene selection with ids.
	Select(ctx context.Context, ids []string) error
}

package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoWindow indicates that no search window was provided.
	ErrNoWindow = errors.New("search window is required")
)

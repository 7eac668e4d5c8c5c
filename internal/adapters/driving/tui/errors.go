package tui

import "errors"

// ErrMissingSearchWindow is returned when the search window is not provided.
var ErrMissingSearchWindow = errors.New("tui: search window is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")

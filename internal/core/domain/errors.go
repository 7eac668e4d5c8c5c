package domain

import "errors"

// Domain errors represent search logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Query parsing.

	// ErrUnknownDirective marks a flag token the schema does not recognise.
	ErrUnknownDirective = errors.New("unknown directive")

	// ErrInvalidValue marks a value rejected by a typed directive.
	ErrInvalidValue = errors.New("invalid directive value")

	// ErrUnexpectedToken marks a bare word inside the flag segment that
	// no typed directive consumed.
	ErrUnexpectedToken = errors.New("unexpected token")

	// Host collaborators.

	// ErrListingFailed indicates the host listing call failed.
	// The corpus degrades to empty when this happens.
	ErrListingFailed = errors.New("listing failed")

	// ErrSelectionFailed indicates the host selection call failed.
	ErrSelectionFailed = errors.New("selection failed")

	// ErrListerUnavailable indicates no listing collaborator was configured.
	ErrListerUnavailable = errors.New("listing collaborator unavailable")

	// Sessions.

	// ErrSessionNotFound indicates an unknown session handle.
	ErrSessionNotFound = errors.New("search session not found")
)

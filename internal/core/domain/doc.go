// Package domain defines the core entities of quick search.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Directive values and sets: named filter flags sent to the host listing call
//   - Schema: the directive grammar (names, aliases, persistent flags)
//   - Window: the materialised prefix of a result set
//   - Control: option toggles mapped to directive names
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

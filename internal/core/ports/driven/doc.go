// Package driven defines the interfaces that core calls OUT to the host.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Lister: the host's node listing call, the corpus source
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - search degrades gracefully:
//
//   - SelectionHost: scene selection get/set. Without it list selection is local only.
//   - TypeCatalog: known node types. Without it typed directive values are not validated.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

// Package sqlite stores a host scene in SQLite and serves it through the
// listing, selection and type catalogue ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each NNN_name.up.sql file runs once, in order.
//
// # Data Location
//
// By default the database is stored at ~/.quicksearch/scene.db.
//
// # Listing
//
// Directive sets are decoded with domain.NewNodeFilter and rendered as a
// single SELECT, so listing does not load the scene into memory.
package sqlite

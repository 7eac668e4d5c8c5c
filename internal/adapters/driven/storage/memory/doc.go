// Package memory provides in-memory implementations of driven ports: a
// config store and a host scene. Both are used as fakes in tests and by
// the CLI when a scene is loaded straight from a TOML file.
package memory

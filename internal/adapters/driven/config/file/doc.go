// Package file persists quicksearch settings as a TOML file under the
// user's home directory.
package file

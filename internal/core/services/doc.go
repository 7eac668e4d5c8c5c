// Package services implements the driving port interfaces.
// Services hold the search logic: query parsing, filter layering, corpus
// caching, the paged result window and selection sync. They call out to
// the host only through driven ports.
package services

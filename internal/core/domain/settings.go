package domain

import (
	"fmt"
	"time"
)

// SearchSettings configures the result window and directive schema.
type SearchSettings struct {
	// InitialCount is the number of rows shown after a reset.
	InitialCount int

	// PageSize is the number of rows added per Grow.
	PageSize int

	// Debounce delays query evaluation while the user is typing.
	Debounce time.Duration

	// Separator delimits path segments of node identifiers.
	Separator string

	// CommonFlags lists directives exposed as option toggles.
	CommonFlags []string

	// PersistentFlags lists boolean directives that are always sent.
	PersistentFlags []string
}

// SceneSettings locates the scene catalogue.
type SceneSettings struct {
	// Path is the scene database file. Empty selects the default location.
	Path string

	// Watch enables refresh on out-of-band scene edits.
	Watch bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Search holds result window and schema settings.
	Search SearchSettings

	// Scene holds scene catalogue settings.
	Scene SceneSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	schema := NodeSchema()
	return AppSettings{
		Search: SearchSettings{
			InitialCount:    DefaultInitialCount,
			PageSize:        DefaultPageSize,
			Debounce:        150 * time.Millisecond,
			Separator:       DefaultSeparator,
			CommonFlags:     append([]string(nil), schema.Common...),
			PersistentFlags: schema.Persistent.Keys(),
		},
		Scene: SceneSettings{
			Watch: true,
		},
	}
}

// Validate checks the settings for values the search model cannot use.
func (s SearchSettings) Validate() error {
	if s.InitialCount <= 0 {
		return fmt.Errorf("%w: initial count must be positive, got %d", ErrInvalidInput, s.InitialCount)
	}
	if s.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidInput, s.PageSize)
	}
	if s.Debounce < 0 {
		return fmt.Errorf("%w: debounce must not be negative", ErrInvalidInput)
	}
	if s.Separator == "" {
		return fmt.Errorf("%w: separator must not be empty", ErrInvalidInput)
	}
	schema := NodeSchema()
	for _, name := range s.CommonFlags {
		if _, kind := schema.Resolve(name); kind != KindBool {
			return fmt.Errorf("%w: %q is not a boolean directive", ErrUnknownDirective, name)
		}
	}
	return nil
}

// Schema returns the node schema with the configured common and
// persistent directives applied.
func (s SearchSettings) Schema() Schema {
	schema := NodeSchema()
	if len(s.CommonFlags) > 0 {
		schema.Common = append([]string(nil), s.CommonFlags...)
	}
	if len(s.PersistentFlags) > 0 {
		schema.Persistent = make(Directives, len(s.PersistentFlags))
		for _, name := range s.PersistentFlags {
			schema.Persistent[name] = Bool(true)
		}
	}
	return schema
}

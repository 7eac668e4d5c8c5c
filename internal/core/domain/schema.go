package domain

// DirectiveKind says whether a directive takes a boolean or a type list.
type DirectiveKind int

const (
	// KindUnknown marks a name the schema does not recognise.
	KindUnknown DirectiveKind = iota

	// KindBool is a present/absent directive.
	KindBool

	// KindTyped is a directive that takes one or more node type names.
	KindTyped
)

// Schema describes the directive grammar for one search domain.
// It is injected into the parser and filter state rather than subclassed.
type Schema struct {
	// Bool lists the canonical boolean directive names.
	Bool []string

	// Typed lists the canonical directive names that take type lists.
	Typed []string

	// Aliases maps short names to canonical names.
	Aliases map[string]string

	// Common lists directives exposed as toggle controls.
	Common []string

	// Persistent holds directives that are always sent to the host.
	Persistent Directives
}

// Resolve maps a directive name (short or long) to its canonical name and kind.
func (s Schema) Resolve(name string) (string, DirectiveKind) {
	if long, ok := s.Aliases[name]; ok {
		name = long
	}
	for _, b := range s.Bool {
		if b == name {
			return name, KindBool
		}
	}
	for _, t := range s.Typed {
		if t == name {
			return name, KindTyped
		}
	}
	return name, KindUnknown
}

// IsPersistent reports whether name is owned by the persistent layer.
func (s Schema) IsPersistent(name string) bool {
	_, ok := s.Persistent[name]
	return ok
}

// NodeSchema returns the directive schema of the host's node listing call.
func NodeSchema() Schema {
	return Schema{
		Bool: []string{
			"assemblies", "cameras", "dagObjects",
			"geometry", "invisible", "lights",
			"live", "lockedNodes", "materials",
			"modified", "partitions", "planes",
			"readOnly", "referencedNodes", "selection",
			"sets", "shapes", "textures",
			"transforms", "untemplated", "visible",
		},
		Typed: []string{"type", "exactType", "excludeType"},
		Aliases: map[string]string{
			"ca": "cameras", "dag": "dagObjects",
			"g": "geometry", "iv": "invisible", "lt": "lights",
			"lv": "live", "ln": "lockedNodes", "mat": "materials",
			"mod": "modified", "pr": "partitions", "pl": "planes",
			"ro": "readOnly", "rn": "referencedNodes", "sl": "selection",
			"set": "sets", "s": "shapes", "tex": "textures",
			"tr": "transforms", "ut": "untemplated", "v": "visible",
			"typ": "type", "et": "exactType", "ext": "excludeType",
		},
		Common: []string{
			"transforms", "shapes", "lights",
			"cameras", "materials", "textures",
			"geometry", "dagObjects", "selection",
		},
		Persistent: Directives{
			"long":      Bool(true),
			"recursive": Bool(true),
		},
	}
}

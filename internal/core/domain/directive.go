package domain

import (
	"sort"
	"strings"
)

// Value is the value of a single filter directive.
// A directive is either boolean (Flag) or a list of node type names (Types).
type Value struct {
	// Flag is the value of a boolean directive.
	Flag bool

	// Types holds the values of a typed directive, in first-seen order.
	Types []string
}

// Bool returns a boolean directive value.
func Bool(v bool) Value {
	return Value{Flag: v}
}

// TypeList returns a typed directive value.
func TypeList(types ...string) Value {
	if len(types) == 0 {
		return Value{}
	}
	return Value{Types: append([]string(nil), types...)}
}

// IsSet reports whether the value carries information.
// False booleans and empty type lists are unset and never sent to the host.
func (v Value) IsSet() bool {
	return v.Flag || len(v.Types) > 0
}

// IsTyped reports whether the value is a type list.
func (v Value) IsTyped() bool {
	return len(v.Types) > 0
}

// Equal reports structural equality. Type lists compare in order.
func (v Value) Equal(other Value) bool {
	if v.Flag != other.Flag || len(v.Types) != len(other.Types) {
		return false
	}
	for i := range v.Types {
		if v.Types[i] != other.Types[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the value.
func (v Value) Clone() Value {
	if len(v.Types) == 0 {
		return Value{Flag: v.Flag}
	}
	return Value{Flag: v.Flag, Types: append([]string(nil), v.Types...)}
}

// Directives is a set of named filter directives.
// Keys are canonical (long form) directive names.
type Directives map[string]Value

// Clone returns a deep copy of the set.
func (d Directives) Clone() Directives {
	out := make(Directives, len(d))
	for k, v := range d {
		out[k] = v.Clone()
	}
	return out
}

// Equal reports map equality. A nil set equals an empty one.
func (d Directives) Equal(other Directives) bool {
	if len(d) != len(other) {
		return false
	}
	for k, v := range d {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Keys returns the directive names in ascending order.
func (d Directives) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty reports whether no directive is set.
func (d Directives) IsEmpty() bool {
	for _, v := range d {
		if v.IsSet() {
			return false
		}
	}
	return true
}

// Token renders a single directive as it would be typed into a query:
// "-name" for booleans and "-name v1 v2" for type lists.
// Unset values render as the empty string.
func Token(name string, v Value) string {
	switch {
	case v.IsTyped():
		return "-" + name + " " + strings.Join(v.Types, " ")
	case v.Flag:
		return "-" + name
	default:
		return ""
	}
}

// Tokens renders every set directive, sorted by name.
func (d Directives) Tokens() []string {
	tokens := make([]string, 0, len(d))
	for _, k := range d.Keys() {
		if tok := Token(k, d[k]); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// String renders the set as space separated flag tokens.
func (d Directives) String() string {
	return strings.Join(d.Tokens(), " ")
}

// Layer identifies which filter layer a directive belongs to.
type Layer int

const (
	// LayerQueryDerived holds directives parsed from the query string.
	// It has the lowest precedence and is replaced on every query change.
	LayerQueryDerived Layer = iota

	// LayerUser holds directives toggled through controls outside the query.
	LayerUser

	// LayerPersistent holds directives required for correct listing.
	// They always win and are never shown to the user.
	LayerPersistent
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerQueryDerived:
		return "query"
	case LayerUser:
		return "user"
	case LayerPersistent:
		return "persistent"
	default:
		return "unknown"
	}
}

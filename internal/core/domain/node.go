package domain

import (
	"slices"
	"strings"
)

// Node is one entry of a host scene.
type Node struct {
	// Path is the full identifier, segments joined by the separator,
	// e.g. "|rig|arm_L|hand_L".
	Path string

	// Type is the node's exact type.
	Type string

	// Inherits lists the ancestor types of Type, nearest first.
	Inherits []string

	// Flags lists the boolean directives the node satisfies, such as
	// "transforms" or "visible".
	Flags []string

	// Selected is true when the node is part of the scene selection.
	Selected bool
}

// Name returns the last path segment.
func (n Node) Name(sep string) string {
	return PathFormatter{Separator: sep}.Display(n.Path)
}

// IsA reports whether the node's type is t or inherits from t.
func (n Node) IsA(t string) bool {
	return n.Type == t || slices.Contains(n.Inherits, t)
}

// Has reports whether the node satisfies a boolean directive.
func (n Node) Has(flag string) bool {
	if flag == "selection" {
		return n.Selected
	}
	return slices.Contains(n.Flags, flag)
}

// categoryDirectives select node kinds. When several are set a node
// matching any of them is listed.
var categoryDirectives = map[string]struct{}{
	"assemblies": {}, "cameras": {}, "dagObjects": {},
	"geometry": {}, "lights": {}, "materials": {},
	"partitions": {}, "planes": {}, "sets": {},
	"shapes": {}, "textures": {}, "transforms": {},
}

// IsCategory reports whether a boolean directive selects a node kind
// rather than restricting by state.
func IsCategory(name string) bool {
	_, ok := categoryDirectives[name]
	return ok
}

// NodeFilter is a listing request decoded from an effective directive set.
type NodeFilter struct {
	// Categories are kind directives. A node must match one of them, or
	// one of Types or ExactTypes, unless all three are empty.
	Categories []string

	// Types match a node whose type is or inherits from the entry.
	Types []string

	// ExactTypes match a node whose type equals the entry.
	ExactTypes []string

	// ExcludeTypes drop nodes whose type is or inherits from the entry.
	ExcludeTypes []string

	// Required are state directives every listed node must satisfy.
	Required []string

	// Long selects full paths over short names.
	Long bool
}

// NewNodeFilter decodes a directive set. Directives that are not set
// are skipped; "long" and "recursive" shape the output rather than the
// match.
func NewNodeFilter(d Directives) NodeFilter {
	var f NodeFilter
	for _, name := range d.Keys() {
		v := d[name]
		if !v.IsSet() {
			continue
		}
		switch name {
		case "long":
			f.Long = true
		case "recursive":
		case "type":
			f.Types = append(f.Types, v.Types...)
		case "exactType":
			f.ExactTypes = append(f.ExactTypes, v.Types...)
		case "excludeType":
			f.ExcludeTypes = append(f.ExcludeTypes, v.Types...)
		default:
			if v.IsTyped() {
				continue
			}
			if IsCategory(name) {
				f.Categories = append(f.Categories, name)
			} else {
				f.Required = append(f.Required, name)
			}
		}
	}
	return f
}

// Selective reports whether the filter restricts node kinds.
func (f NodeFilter) Selective() bool {
	return len(f.Categories) > 0 || len(f.Types) > 0 || len(f.ExactTypes) > 0
}

// Match reports whether a node passes the filter.
func (f NodeFilter) Match(n Node) bool {
	if f.Selective() && !f.matchKind(n) {
		return false
	}
	for _, t := range f.ExcludeTypes {
		if n.IsA(t) {
			return false
		}
	}
	for _, flag := range f.Required {
		if !n.Has(flag) {
			return false
		}
	}
	return true
}

func (f NodeFilter) matchKind(n Node) bool {
	for _, c := range f.Categories {
		if n.Has(c) {
			return true
		}
	}
	for _, t := range f.Types {
		if n.IsA(t) {
			return true
		}
	}
	return slices.Contains(f.ExactTypes, n.Type)
}

// Identifier returns the string the listing reports for a node.
func (f NodeFilter) Identifier(n Node, sep string) string {
	if f.Long {
		return n.Path
	}
	return n.Name(sep)
}

// ValidatePath checks a node path: it must be non-empty and free of
// empty segments after the leading separator.
func ValidatePath(path, sep string) bool {
	trimmed := strings.TrimPrefix(path, sep)
	if trimmed == "" {
		return false
	}
	for _, seg := range strings.Split(trimmed, sep) {
		if seg == "" {
			return false
		}
	}
	return true
}

package services

import (
	"github.com/custodia-labs/quicksearch/internal/core/domain"
	"github.com/custodia-labs/quicksearch/internal/logger"
)

// FilterState holds the three directive layers and merges them.
//
// Precedence is QueryDerived < User < Persistent. A key whose winning value
// is unset is omitted from the effective set.
type FilterState struct {
	schema domain.Schema
	user   domain.Directives
	query  domain.Directives
}

// NewFilterState creates an empty filter state for schema.
func NewFilterState(schema domain.Schema) *FilterState {
	return &FilterState{
		schema: schema,
		user:   domain.Directives{},
		query:  domain.Directives{},
	}
}

// Schema returns the directive schema.
func (f *FilterState) Schema() domain.Schema {
	return f.schema
}

// SetUser sets a user-layer directive. Short names are resolved. An unset
// value is stored too, so it masks the same key in the query-derived layer.
// Unknown and persistent names are rejected. It reports whether the user
// layer changed.
func (f *FilterState) SetUser(name string, v domain.Value) bool {
	canonical, kind := f.schema.Resolve(name)
	if kind == domain.KindUnknown || f.schema.IsPersistent(canonical) {
		logger.Warn("Ignoring user directive %q: %v", name, domain.ErrUnknownDirective)
		return false
	}
	if kind == domain.KindBool && v.IsTyped() {
		logger.Warn("Ignoring user directive %q: %v", name, domain.ErrInvalidValue)
		return false
	}
	if kind == domain.KindTyped {
		v.Flag = false
	} else {
		v = domain.Bool(v.Flag)
	}

	current, exists := f.user[canonical]
	if exists && current.Equal(v) {
		return false
	}
	f.user[canonical] = v.Clone()
	return true
}

// ResetUser clears the user layer and reports whether it was non-empty.
func (f *FilterState) ResetUser() bool {
	if len(f.user) == 0 {
		return false
	}
	f.user = domain.Directives{}
	return true
}

// SetQueryDerived replaces the query-derived layer.
func (f *FilterState) SetQueryDerived(d domain.Directives) {
	f.query = d.Clone()
}

// User returns a copy of the user layer.
func (f *FilterState) User() domain.Directives {
	return f.user.Clone()
}

// QueryDerived returns a copy of the query-derived layer.
func (f *FilterState) QueryDerived() domain.Directives {
	return f.query.Clone()
}

// Effective merges the layers into the directive set sent to the host.
// The merge is pure: equal layers always produce equal sets.
func (f *FilterState) Effective() domain.Directives {
	out := domain.Directives{}
	for _, layer := range []domain.Directives{f.query, f.user, f.schema.Persistent} {
		for k, v := range layer {
			if v.IsSet() {
				out[k] = v.Clone()
			} else {
				delete(out, k)
			}
		}
	}
	return out
}

// Active returns the effective directives the user can see, i.e. without
// persistent keys.
func (f *FilterState) Active() domain.Directives {
	out := f.Effective()
	for k := range f.schema.Persistent {
		delete(out, k)
	}
	return out
}

// HasActive reports whether any non-persistent directive survives the
// merge. A query-derived key masked by an unset user value does not count.
func (f *FilterState) HasActive() bool {
	return !f.Active().IsEmpty()
}

// Value returns the effective value for a directive name or alias.
func (f *FilterState) Value(name string) (domain.Value, bool) {
	if long, ok := f.schema.Aliases[name]; ok {
		name = long
	}
	v, ok := f.Effective()[name]
	return v, ok
}

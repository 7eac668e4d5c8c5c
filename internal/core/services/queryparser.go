package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/quicksearch/internal/core/domain"
	"github.com/custodia-labs/quicksearch/internal/core/ports/driven"
	"github.com/custodia-labs/quicksearch/internal/logger"
)

// QueryParser splits a query string into a free-text body and directives.
// It never fails: unknown flags and rejected values are reported in
// ParseResult.Ignored and otherwise skipped.
type QueryParser struct {
	schema domain.Schema
	// types holds the accepted values of typed directives.
	// nil accepts every value.
	types map[string]struct{}
}

// NewQueryParser creates a parser for the given directive schema.
func NewQueryParser(schema domain.Schema) *QueryParser {
	return &QueryParser{schema: schema}
}

// LoadTypes restricts typed directive values to the catalog's node types.
// On failure the previous restriction is kept and the error returned.
func (p *QueryParser) LoadTypes(ctx context.Context, catalog driven.TypeCatalog) error {
	if catalog == nil {
		return nil
	}
	types, err := catalog.NodeTypes(ctx)
	if err != nil {
		return fmt.Errorf("loading node types: %w", err)
	}
	p.SetTypes(types)
	logger.Debug("Parser accepts %d node types", len(types))
	return nil
}

// SetTypes restricts typed directive values to types. A nil slice lifts
// the restriction.
func (p *QueryParser) SetTypes(types []string) {
	if types == nil {
		p.types = nil
		return
	}
	p.types = make(map[string]struct{}, len(types))
	for _, t := range types {
		p.types[t] = struct{}{}
	}
}

// Parse parses query against the current user-layer directives.
//
// Everything before the first '-' is the body. The rest is split on
// whitespace: "-name" sets a boolean directive, "-name v1 v2" collects
// values for a typed directive until the next flag. Directives that repeat
// the user layer are dropped, as are typed directives left without values.
//
//	Parse("my search -flag1 -flag2 -invalidFlag ignored text", nil)
//	// Body: "my search ", Directives: {flag1, flag2}
func (p *QueryParser) Parse(query string, user domain.Directives) domain.ParseResult {
	result := domain.ParseResult{Body: query, Directives: domain.Directives{}}

	idx := strings.Index(query, domain.FlagIntroducer)
	if idx < 0 {
		return result
	}
	result.Body = query[:idx]

	var (
		collecting string
		values     []string
	)
	// A later occurrence of a typed flag replaces an earlier one, so an
	// empty repeat clears it.
	closeTyped := func() {
		switch {
		case collecting == "":
		case len(values) > 0:
			result.Directives[collecting] = domain.TypeList(values...)
		default:
			delete(result.Directives, collecting)
		}
		collecting, values = "", nil
	}
	ignore := func(tok string, reason error) {
		result.Ignored = append(result.Ignored, domain.IgnoredToken{Token: tok, Reason: reason})
	}

	for _, tok := range strings.Fields(query[idx:]) {
		if strings.HasPrefix(tok, domain.FlagIntroducer) {
			closeTyped()
			name, kind := p.schema.Resolve(strings.TrimPrefix(tok, domain.FlagIntroducer))
			switch kind {
			case domain.KindBool:
				result.Directives[name] = domain.Bool(true)
			case domain.KindTyped:
				collecting = name
			default:
				ignore(tok, domain.ErrUnknownDirective)
			}
			continue
		}

		if collecting == "" {
			ignore(tok, domain.ErrUnexpectedToken)
			continue
		}
		if !p.acceptsType(tok) {
			ignore(tok, domain.ErrInvalidValue)
			continue
		}
		if !contains(values, tok) {
			values = append(values, tok)
		}
	}
	closeTyped()

	for name, v := range result.Directives {
		if uv, ok := user[name]; ok && uv.Equal(v) {
			delete(result.Directives, name)
		}
	}

	for _, ig := range result.Ignored {
		logger.Debug("Ignored query token %q: %v", ig.Token, ig.Reason)
	}
	return result
}

func (p *QueryParser) acceptsType(name string) bool {
	if p.types == nil {
		return true
	}
	_, ok := p.types[name]
	return ok
}

func contains(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}

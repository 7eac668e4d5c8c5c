package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/quicksearch/internal/core/domain"
	"github.com/custodia-labs/quicksearch/internal/core/ports/driven"
)

// Ensure Scene implements the host interfaces.
var (
	_ driven.Lister        = (*Scene)(nil)
	_ driven.SelectionHost = (*Scene)(nil)
	_ driven.TypeCatalog   = (*Scene)(nil)
)

// Scene is an in-memory host scene. It lists nodes, tracks the selection
// and reports its node types.
type Scene struct {
	mu        sync.RWMutex
	separator string
	nodes     []domain.Node
	index     map[string]int
}

// NewScene creates a scene holding nodes. An empty separator selects
// domain.DefaultSeparator.
func NewScene(separator string, nodes ...domain.Node) *Scene {
	s := &Scene{}
	s.Replace(separator, nodes)
	return s
}

// Replace swaps the scene contents.
func (s *Scene) Replace(separator string, nodes []domain.Node) {
	if separator == "" {
		separator = domain.DefaultSeparator
	}
	index := make(map[string]int, len(nodes))
	cloned := make([]domain.Node, len(nodes))
	for i, n := range nodes {
		n.Inherits = slices.Clone(n.Inherits)
		n.Flags = slices.Clone(n.Flags)
		cloned[i] = n
		index[n.Path] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.separator = separator
	s.nodes = cloned
	s.index = index
}

// Import replaces the scene contents.
func (s *Scene) Import(ctx context.Context, separator string, nodes []domain.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Replace(separator, nodes)
	return nil
}

// Separator returns the scene's path separator.
func (s *Scene) Separator(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.separator, nil
}

// Add appends a node, replacing any node with the same path.
func (s *Scene) Add(n domain.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[n.Path]; ok {
		s.nodes[i] = n
		return
	}
	s.index[n.Path] = len(s.nodes)
	s.nodes = append(s.nodes, n)
}

// Nodes returns a copy of the scene's nodes.
func (s *Scene) Nodes(ctx context.Context) ([]domain.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.nodes), nil
}

// List returns the identifiers of nodes matching the directive set.
func (s *Scene) List(ctx context.Context, directives domain.Directives) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filter := domain.NewNodeFilter(directives)

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.nodes))
	for _, n := range s.nodes {
		if filter.Match(n) {
			ids = append(ids, filter.Identifier(n, s.separator))
		}
	}
	return ids, nil
}

// Selected returns the full paths of selected nodes in scene order.
func (s *Scene) Selected(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for _, n := range s.nodes {
		if n.Selected {
			ids = append(ids, n.Path)
		}
	}
	return ids, nil
}

// Select replaces the selection. Identifiers may be full paths or, when
// unambiguous, short names.
func (s *Scene) Select(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	picked := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		i, err := s.lookup(id)
		if err != nil {
			return err
		}
		picked[i] = struct{}{}
	}
	for i := range s.nodes {
		_, ok := picked[i]
		s.nodes[i].Selected = ok
	}
	return nil
}

// lookup resolves an identifier. Caller must hold the lock.
func (s *Scene) lookup(id string) (int, error) {
	if i, ok := s.index[id]; ok {
		return i, nil
	}
	found := -1
	for i, n := range s.nodes {
		if n.Name(s.separator) != id {
			continue
		}
		if found >= 0 {
			return -1, fmt.Errorf("%w: %q matches several nodes", domain.ErrInvalidInput, id)
		}
		found = i
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: node %q", domain.ErrNotFound, id)
	}
	return found, nil
}

// NodeTypes returns every exact and inherited type in the scene, sorted.
func (s *Scene) NodeTypes(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, n := range s.nodes {
		set[n.Type] = struct{}{}
		for _, t := range n.Inherits {
			set[t] = struct{}{}
		}
	}
	types := make([]string, 0, len(set))
	for t := range set {
		types = append(types, t)
	}
	slices.Sort(types)
	return types, nil
}

// Package scenefile reads scene descriptions written in TOML.
//
// A scene file lists nodes and, optionally, per-type defaults:
//
//	[types.joint]
//	inherits = ["transform", "dagNode"]
//	flags = ["transforms", "dagObjects"]
//
//	[[nodes]]
//	path = "|rig|root_jnt"
//	type = "joint"
//	flags = ["visible"]
//	selected = true
//
// A node's inherited types and flags are its type defaults followed by its
// own entries.
package scenefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/quicksearch/internal/core/domain"
)

// File is the decoded form of a scene file.
type File struct {
	Separator string              `toml:"separator,omitempty"`
	Types     map[string]TypeSpec `toml:"types,omitempty"`
	Nodes     []NodeSpec          `toml:"nodes"`
}

// TypeSpec holds defaults applied to every node of a type.
type TypeSpec struct {
	Inherits []string `toml:"inherits,omitempty"`
	Flags    []string `toml:"flags,omitempty"`
}

// NodeSpec is one [[nodes]] entry.
type NodeSpec struct {
	Path     string   `toml:"path"`
	Type     string   `toml:"type"`
	Inherits []string `toml:"inherits,omitempty"`
	Flags    []string `toml:"flags,omitempty"`
	Selected bool     `toml:"selected,omitempty"`
}

// Scene is a loaded scene.
type Scene struct {
	Separator string
	Nodes     []domain.Node
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	scene, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene, nil
}

// Decode reads a scene from r.
func Decode(r io.Reader) (*Scene, error) {
	var file File
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strict.String())
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return file.Resolve()
}

// Resolve applies type defaults and validates the nodes.
func (f File) Resolve() (*Scene, error) {
	sep := f.Separator
	if sep == "" {
		sep = domain.DefaultSeparator
	}

	scene := &Scene{Separator: sep, Nodes: make([]domain.Node, 0, len(f.Nodes))}
	seen := make(map[string]struct{}, len(f.Nodes))
	for i, spec := range f.Nodes {
		if !domain.ValidatePath(spec.Path, sep) {
			return nil, fmt.Errorf("%w: node %d has invalid path %q", domain.ErrInvalidInput, i, spec.Path)
		}
		if spec.Type == "" {
			return nil, fmt.Errorf("%w: node %q has no type", domain.ErrInvalidInput, spec.Path)
		}
		if _, dup := seen[spec.Path]; dup {
			return nil, fmt.Errorf("%w: duplicate node %q", domain.ErrInvalidInput, spec.Path)
		}
		seen[spec.Path] = struct{}{}

		defaults := f.Types[spec.Type]
		scene.Nodes = append(scene.Nodes, domain.Node{
			Path:     spec.Path,
			Type:     spec.Type,
			Inherits: merge(defaults.Inherits, spec.Inherits),
			Flags:    merge(defaults.Flags, spec.Flags),
			Selected: spec.Selected,
		})
	}
	return scene, nil
}

// Encode writes a scene in the file format. Type defaults are not
// reconstructed; every node carries its full lists.
func Encode(w io.Writer, scene *Scene) error {
	file := File{Nodes: make([]NodeSpec, 0, len(scene.Nodes))}
	if scene.Separator != domain.DefaultSeparator {
		file.Separator = scene.Separator
	}
	for _, n := range scene.Nodes {
		file.Nodes = append(file.Nodes, NodeSpec{
			Path:     n.Path,
			Type:     n.Type,
			Inherits: n.Inherits,
			Flags:    n.Flags,
			Selected: n.Selected,
		})
	}
	enc := toml.NewEncoder(w).SetIndentTables(true)
	return enc.Encode(file)
}

// NodeTypes returns every exact and inherited type in the scene, sorted.
func (s *Scene) NodeTypes() []string {
	set := make(map[string]struct{})
	for _, n := range s.Nodes {
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
	return types
}

func merge(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, v := range list {
			if !slices.Contains(out, v) {
				out = append(out, v)
			}
		}
	}
	return out
}

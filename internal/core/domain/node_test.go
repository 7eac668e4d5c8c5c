package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	camNode = Node{
		Path:     "|cam",
		Type:     "transform",
		Inherits: []string{"dagNode"},
		Flags:    []string{"transforms", "cameras", "visible"},
	}
	jointNode = Node{
		Path:     "|rig|jnt01",
		Type:     "joint",
		Inherits: []string{"transform", "dagNode"},
		Flags:    []string{"transforms", "visible"},
		Selected: true,
	}
	lambertNode = Node{
		Path:     "lambert1",
		Type:     "lambert",
		Inherits: []string{"shadingDependNode"},
		Flags:    []string{"materials"},
	}
)

func TestNode_NameAndIsA(t *testing.T) {
	assert.Equal(t, "jnt01", jointNode.Name("|"))
	assert.True(t, jointNode.IsA("joint"))
	assert.True(t, jointNode.IsA("transform"))
	assert.False(t, jointNode.IsA("mesh"))
}

func TestNode_Has(t *testing.T) {
	assert.True(t, camNode.Has("cameras"))
	assert.False(t, camNode.Has("lights"))
	assert.False(t, camNode.Has("selection"))
	assert.True(t, jointNode.Has("selection"))
}

func TestNewNodeFilter(t *testing.T) {
	f := NewNodeFilter(Directives{
		"long":        Bool(true),
		"recursive":   Bool(true),
		"cameras":     Bool(true),
		"visible":     Bool(true),
		"lights":      Bool(false),
		"type":        TypeList("joint"),
		"exactType":   TypeList("lambert"),
		"excludeType": TypeList("mesh"),
	})

	assert.True(t, f.Long)
	assert.Equal(t, []string{"cameras"}, f.Categories)
	assert.Equal(t, []string{"visible"}, f.Required)
	assert.Equal(t, []string{"joint"}, f.Types)
	assert.Equal(t, []string{"lambert"}, f.ExactTypes)
	assert.Equal(t, []string{"mesh"}, f.ExcludeTypes)
	assert.True(t, f.Selective())
}

func TestNodeFilter_Match(t *testing.T) {
	nodes := []Node{camNode, jointNode, lambertNode}
	match := func(d Directives) []string {
		f := NewNodeFilter(d)
		var out []string
		for _, n := range nodes {
			if f.Match(n) {
				out = append(out, n.Path)
			}
		}
		return out
	}

	tests := []struct {
		name string
		d    Directives
		want []string
	}{
		{"empty lists all", Directives{}, []string{"|cam", "|rig|jnt01", "lambert1"}},
		{"categories union", Directives{"cameras": Bool(true), "materials": Bool(true)}, []string{"|cam", "lambert1"}},
		{"state narrows", Directives{"transforms": Bool(true), "selection": Bool(true)}, []string{"|rig|jnt01"}},
		{"type inherits", Directives{"type": TypeList("transform")}, []string{"|cam", "|rig|jnt01"}},
		{"exact type", Directives{"exactType": TypeList("transform")}, []string{"|cam"}},
		{"exclude type", Directives{"excludeType": TypeList("dagNode")}, []string{"lambert1"}},
		{"state only", Directives{"visible": Bool(true)}, []string{"|cam", "|rig|jnt01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, match(tt.d))
		})
	}
}

func TestNodeFilter_Identifier(t *testing.T) {
	assert.Equal(t, "|rig|jnt01", NodeFilter{Long: true}.Identifier(jointNode, "|"))
	assert.Equal(t, "jnt01", NodeFilter{}.Identifier(jointNode, "|"))
}

func TestIsCategory(t *testing.T) {
	assert.True(t, IsCategory("cameras"))
	assert.False(t, IsCategory("visible"))
	assert.False(t, IsCategory("type"))
}

func TestValidatePath(t *testing.T) {
	assert.True(t, ValidatePath("|rig|jnt01", "|"))
	assert.True(t, ValidatePath("lambert1", "|"))
	assert.False(t, ValidatePath("", "|"))
	assert.False(t, ValidatePath("|", "|"))
	assert.False(t, ValidatePath("|rig||jnt01", "|"))
	assert.False(t, ValidatePath("|rig|", "|"))
}

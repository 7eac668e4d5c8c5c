package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_IsSet(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  bool
	}{
		{"true", Bool(true), true},
		{"false", Bool(false), false},
		{"types", TypeList("joint"), true},
		{"empty types", TypeList(), false},
		{"zero", Value{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.IsSet())
		})
	}
}

func TestValue_EqualOrdered(t *testing.T) {
	assert.True(t, TypeList("a", "b").Equal(TypeList("a", "b")))
	assert.False(t, TypeList("a", "b").Equal(TypeList("b", "a")))
	assert.False(t, Bool(true).Equal(Bool(false)))
	assert.True(t, Bool(false).Equal(Value{}))
}

func TestValue_CloneIsDeep(t *testing.T) {
	v := TypeList("mesh")
	c := v.Clone()
	c.Types[0] = "joint"

	assert.Equal(t, "mesh", v.Types[0])
}

func TestTypeList_CopiesInput(t *testing.T) {
	in := []string{"mesh"}
	v := TypeList(in...)
	in[0] = "joint"

	assert.Equal(t, []string{"mesh"}, v.Types)
}

func TestDirectives_Equal(t *testing.T) {
	a := Directives{"cameras": Bool(true), "type": TypeList("joint")}
	b := Directives{"type": TypeList("joint"), "cameras": Bool(true)}

	assert.True(t, a.Equal(b))
	assert.True(t, Directives(nil).Equal(Directives{}))
	assert.False(t, a.Equal(Directives{"cameras": Bool(true)}))
	assert.False(t, a.Equal(Directives{"cameras": Bool(true), "type": TypeList("mesh")}))
}

func TestDirectives_CloneIsIndependent(t *testing.T) {
	d := Directives{"type": TypeList("joint")}
	c := d.Clone()
	c["cameras"] = Bool(true)
	c["type"].Types[0] = "mesh"

	assert.Len(t, d, 1)
	assert.Equal(t, "joint", d["type"].Types[0])
}

func TestDirectives_IsEmpty(t *testing.T) {
	assert.True(t, Directives{}.IsEmpty())
	assert.True(t, Directives{"cameras": Bool(false)}.IsEmpty())
	assert.False(t, Directives{"cameras": Bool(true)}.IsEmpty())
}

func TestDirectives_String(t *testing.T) {
	d := Directives{
		"type":      TypeList("joint", "mesh"),
		"cameras":   Bool(true),
		"invisible": Bool(false),
	}

	assert.Equal(t, []string{"cameras", "invisible", "type"}, d.Keys())
	assert.Equal(t, "-cameras -type joint mesh", d.String())
	assert.Equal(t, "", Directives{}.String())
}

func TestToken(t *testing.T) {
	assert.Equal(t, "-lights", Token("lights", Bool(true)))
	assert.Equal(t, "", Token("lights", Bool(false)))
	assert.Equal(t, "-type joint", Token("type", TypeList("joint")))
}

func TestLayer_String(t *testing.T) {
	assert.Equal(t, "query", LayerQueryDerived.String())
	assert.Equal(t, "user", LayerUser.String())
	assert.Equal(t, "persistent", LayerPersistent.String())
	assert.Equal(t, "unknown", Layer(42).String())
}

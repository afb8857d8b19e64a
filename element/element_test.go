package element_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/delaneyj/fiberparty/element"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHLiftsKeyAndRef(t *testing.T) {
	ref := &element.RefObject{}
	e := element.H("li", element.Props{"key": 3, "ref": ref, "id": "x"}, "a")

	assert.Equal(t, "3", e.Key)
	assert.Same(t, ref, e.Ref)
	assert.Equal(t, "x", e.Props["id"])
	assert.Equal(t, "a", e.Props.Children())
	_, hasKey := e.Props["key"]
	assert.False(t, hasKey)
}

func TestHChildrenShape(t *testing.T) {
	none := element.H("div", nil)
	assert.Nil(t, none.Props.Children())

	many := element.H("div", nil, "a", "b")
	kids, ok := element.ChildSlice(many.Props.Children())
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, kids)
}

func TestIs(t *testing.T) {
	m := map[string]int{}
	s := []int{1, 2}
	f := func() {}
	g := func() {}

	assert.True(t, element.Is(1, 1))
	assert.False(t, element.Is(1, int64(1)))
	assert.True(t, element.Is(math.NaN(), math.NaN()))
	assert.False(t, element.Is(0.0, math.Copysign(0, -1)))
	assert.True(t, element.Is(m, m))
	assert.False(t, element.Is(m, map[string]int{}))
	assert.True(t, element.Is(s, s))
	assert.False(t, element.Is(s, s[:1]))
	assert.True(t, element.Is(f, f))
	assert.False(t, element.Is(f, g))
	assert.True(t, element.Is(nil, nil))
	assert.False(t, element.Is(nil, 0))
}

func TestShallowEqual(t *testing.T) {
	shared := []int{1}
	a := element.Props{"n": 1, "s": shared}
	b := element.Props{"n": 1, "s": shared}
	c := element.Props{"n": 1, "s": []int{1}}

	assert.True(t, element.ShallowEqual(a, b))
	assert.False(t, element.ShallowEqual(a, c))
	assert.False(t, element.SameProps(a, b))
	assert.True(t, element.SameProps(a, a))
}

func TestTextOf(t *testing.T) {
	for _, tc := range []struct {
		in   any
		want string
		ok   bool
	}{
		{"x", "x", true},
		{42, "42", true},
		{1.5, "1.5", true},
		{true, "", false},
		{nil, "", false},
	} {
		got, ok := element.TextOf(tc.in)
		assert.Equal(t, tc.ok, ok, "%v", tc.in)
		assert.Equal(t, tc.want, got, "%v", tc.in)
	}
}

func TestContextProvide(t *testing.T) {
	ctx := element.CreateContext("Theme", "light")
	e := ctx.Provide("dark", "child")

	assert.Same(t, ctx.Provider, e.Type)
	assert.Equal(t, "dark", e.Props["value"])
	assert.Equal(t, "Theme.Provider", element.TypeName(e.Type))
}

func TestMarshalJSON(t *testing.T) {
	e := element.H("button", element.Props{"key": "k", "onClick": func() {}, "title": "go"}, "press")
	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"button","key":"k","props":{"title":"go","children":"press"}}`, string(b))
}

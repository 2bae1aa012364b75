package macro

import (
	"testing"

	"github.com/abdul-hamid-achik/pmplus/packages/core/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Kinds(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
	}{
		{input: "set(a=1)", kind: KindSet},
		{input: "  set(a=1, b = two)  ", kind: KindSet},
		{input: "set()", kind: KindUnknown},
		{input: "clear()", kind: KindClear},
		{input: "clear(a, b)", kind: KindClear},
		{input: "include(auth)", kind: KindInclude},
		{input: "include(lib/auth.yaml, 2, Login)", kind: KindInclude},
		{input: "include()", kind: KindUnknown},
		{input: "launch(x)", kind: KindUnknown},
		{input: "set(a='quoted')", kind: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.kind, Parse(tt.input).Kind)
		})
	}
}

func TestParse_Set(t *testing.T) {
	d := Parse("set(a=1,b=two, c = 3.5,)")
	require.Equal(t, KindSet, d.Kind)
	require.Len(t, d.Assignments, 3)

	assert.Equal(t, "a", d.Assignments[0].Name)
	assert.True(t, d.Assignments[0].Value.IsNumber)
	assert.Equal(t, "b", d.Assignments[1].Name)
	assert.False(t, d.Assignments[1].Value.IsNumber)
	assert.Equal(t, "two", d.Assignments[1].Value.Text)
	assert.Equal(t, "c", d.Assignments[2].Name)
	assert.Equal(t, 3.5, d.Assignments[2].Value.Number)
}

func TestParse_Include(t *testing.T) {
	d := Parse("include(shared/auth, 2, Get Token)")
	require.Equal(t, KindInclude, d.Kind)
	assert.Equal(t, "shared/auth", d.Path)
	assert.Equal(t, []string{"2", "Get Token"}, d.Selectors)
}

func TestApply(t *testing.T) {
	s := scope.New()

	assert.True(t, Parse("set(a=1,b=two,c=3)").Apply(s))
	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())

	assert.True(t, Parse("clear(b)").Apply(s))
	assert.Equal(t, []string{"a", "c"}, s.Keys())

	assert.True(t, Parse("clear()").Apply(s))
	assert.Equal(t, 0, s.Len())

	assert.False(t, Parse("include(x)").Apply(s))
}

func TestApply_ClearAllThenEmptySet(t *testing.T) {
	scopes := []*scope.Scope{scope.New(), scope.New(), scope.New()}
	scopes[1].Set("a", scope.ParseValue("1"))
	scopes[2].Set("a", scope.ParseValue("1"))
	scopes[2].Set("b", scope.ParseValue("x"))

	for _, s := range scopes {
		Parse("clear()").Apply(s)
		Parse("set()").Apply(s)
		assert.Equal(t, 0, s.Len())
	}
}

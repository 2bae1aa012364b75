package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverGetUnresolvedVariables(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		variables map[string]any
		script    string
		expected  []string
	}{
		{
			name:     "no variables",
			input:    "hello world",
			expected: nil,
		},
		{
			name:      "resolved variable",
			input:     "{{foo}}",
			variables: map[string]any{"foo": "bar"},
			expected:  nil,
		},
		{
			name:     "single unresolved variable",
			input:    "{{foo}}",
			expected: []string{"foo"},
		},
		{
			name:      "mixed resolved and unresolved",
			input:     "{{foo}} and {{bar}} and {{baz}}",
			variables: map[string]any{"bar": "middle"},
			expected:  []string{"foo", "baz"},
		},
		{
			name:     "dynamic variables ignored",
			input:    "{{$guid}}/{{$timestamp}}",
			expected: nil,
		},
		{
			name:     "declared by script",
			input:    "{{domain}}/users/{{userId}}",
			script:   "pm.environment.set(\"userId\", json.id);\npm.variables.set('other', 1)",
			expected: []string{"domain"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver()
			r.SetVariables(tt.variables)
			r.DeclareFromScript(tt.script)

			assert.Equal(t, tt.expected, r.GetUnresolvedVariables(tt.input))
			assert.Equal(t, tt.expected != nil, r.HasUnresolvedVariables(tt.input))
		})
	}
}

func TestResolverResolve(t *testing.T) {
	var warnings []string
	r := NewResolver()
	r.SetWarnFunc(func(format string, args ...any) { warnings = append(warnings, format) })
	r.SetVariable("domain", "http://x.test")
	r.SetVariable("n", 3)
	r.DeclareFromScript("pm.variables.set('token', 't')")

	got := r.Resolve("{{domain}}/{{ n }}/{{token}}/{{missing}}/{{$guid}}")
	assert.Equal(t, "http://x.test/3/{{token}}/{{missing}}/{{$guid}}", got)
	assert.Len(t, warnings, 1)
}

func TestResolverClone(t *testing.T) {
	r := NewResolver()
	r.SetVariable("a", 1)
	r.DeclareFromScript("pm.globals.set('b', 2)")

	c := r.Clone()
	c.SetVariable("z", 0)

	assert.True(t, c.HasVariable("a"))
	assert.True(t, c.HasVariable("b"))
	assert.False(t, r.HasVariable("z"))
}

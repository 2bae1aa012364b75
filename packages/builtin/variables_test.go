package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_Unknown(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "{{domain}}/users", nil},
		{"known", "{{domain}}/{{$guid}}?t={{ $timestamp }}", nil},
		{"misspelled", "{{$randomint}}/{{$guid}}/{{$randomint}}", []string{"randomint"}},
		{"several", "{{$foo}} {{$bar}}", []string{"foo", "bar"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Unknown(tt.text))
		})
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Has("tenant"))
	r.Register("tenant")
	assert.True(t, r.Has("tenant"))
	assert.Empty(t, r.Unknown("{{$tenant}}"))
	assert.Contains(t, r.Names(), "tenant")
	assert.IsIncreasing(t, r.Names())
}

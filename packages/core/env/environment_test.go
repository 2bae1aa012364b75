package env

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEnvironment(t *testing.T) {
	env := BuildEnvironment("local", "", "http://localhost:3000", map[string]string{
		"token":  "t",
		"api":    "v1",
		"domain": "ignored",
	})

	assert.Equal(t, "local", env.Name)
	assert.Equal(t, "environment", env.Scope)
	assert.NotEmpty(t, env.ID)
	assert.Equal(t, []Value{
		{Key: "domain", Value: "http://localhost:3000", Type: "text", Enabled: true},
		{Key: "api", Value: "v1", Type: "text", Enabled: true},
		{Key: "token", Value: "t", Type: "text", Enabled: true},
	}, env.Values)

	env = BuildEnvironment("ci", "https://ci.test", "http://localhost:3000", nil)
	require.Len(t, env.Values, 1)
	assert.Equal(t, "https://ci.test", env.Values[0].Value)
}

func TestEnvironmentWriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.json")
	env := BuildEnvironment("local", "http://a.test", "", map[string]string{"k": "v"})
	env.Values = append(env.Values, Value{Key: "off", Value: "x", Type: "text"})
	require.NoError(t, env.WriteFile(path))

	loaded, err := LoadEnvironment(path)
	require.NoError(t, err)
	assert.Equal(t, env.Values, loaded.Values)
	assert.Equal(t, map[string]any{"domain": "http://a.test", "k": "v"}, loaded.Variables())

	_, err = LoadEnvironment(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestMergeVariables(t *testing.T) {
	got := MergeVariables(map[string]string{"a": "1", "b": "1"}, nil, map[string]string{"b": "2"})
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, got)
}

func TestLoadSystemEnv(t *testing.T) {
	t.Setenv("PMPLUSVAR_TOKEN", "abc")

	got := LoadSystemEnv("PMPLUSVAR_")
	assert.Equal(t, "abc", got["TOKEN"])
	assert.Empty(t, LoadSystemEnv(""))
}

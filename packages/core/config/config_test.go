package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAndLoadConfig_Defaults(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.IsDefault())
	assert.Equal(t, DefaultDomain, cfg.Domain)
	assert.Equal(t, 16, cfg.MaxIncludeDepth)
	assert.Empty(t, cfg.File)
	assert.False(t, cfg.GetVerbose())
}

func TestFindAndLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pmplusrc")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "domain": "http://file.test",
  "maxIncludeDepth": 4,
  "exclude": ["tmp", "/draft/"],
  "noColor": true
}`), 0o644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "http://file.test", cfg.Domain)
	assert.Equal(t, 4, cfg.MaxIncludeDepth)
	assert.Equal(t, ".yaml", cfg.DefaultExtension)
	assert.Equal(t, []string{"tmp", "/draft/"}, cfg.Exclude)
	assert.True(t, cfg.GetNoColor())
	assert.Nil(t, cfg.Verbose)
}

func TestFindAndLoadConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pmplus.config.json"), []byte(`{"domain": "http://file.test"}`), 0o644))
	t.Setenv("PMPLUS_DOMAIN", "http://env.test")
	t.Setenv("PMPLUS_VERBOSE", "true")
	t.Setenv("PMPLUS_MAXINCLUDEDEPTH", "8")

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://env.test", cfg.Domain)
	assert.Equal(t, 8, cfg.MaxIncludeDepth)
	assert.True(t, cfg.GetVerbose())
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Exclude = []string{"a"}

	merged := base.Merge(&Config{
		Domain:  "http://flag.test",
		Exclude: []string{"b"},
		Verbose: BoolPtr(true),
	})

	assert.Equal(t, "http://flag.test", merged.Domain)
	assert.Equal(t, 16, merged.MaxIncludeDepth)
	assert.Equal(t, []string{"a", "b"}, merged.Exclude)
	assert.True(t, merged.GetVerbose())
	assert.Equal(t, []string{"a"}, base.Exclude)
	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".pmplus.config.json")
	cfg := DefaultConfig()
	cfg.Schema = "schema.json"
	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "schema.json", loaded.Schema)
	assert.Equal(t, cfg.Domain, loaded.Domain)
}

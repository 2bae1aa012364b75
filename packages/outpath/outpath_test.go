package outpath

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlain(t *testing.T) {
	assert.Equal(t, "dir/a.json", Plain("dir/a.yaml", ".json"))
	assert.Equal(t, "a.yaml", Plain("a.json", "yaml"))
	assert.Equal(t, "a.b.yaml", Plain("a.b.json", ".yaml"))
	assert.Equal(t, "noext.json", Plain("noext", ".json"))
}

func TestDeriveAt(t *testing.T) {
	dir := t.TempDir()
	now := time.UnixMilli(1700000000123)
	input := filepath.Join(dir, "suite.yaml")

	assert.Equal(t, filepath.Join(dir, "suite.json"), DeriveAt(input, ".json", now))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "suite.json"), []byte("{}"), 0o644))
	assert.Equal(t, filepath.Join(dir, "suite_1700000000123.json"), DeriveAt(input, ".json", now))
}

func TestTimestamped(t *testing.T) {
	got := Timestamped("out", "curl", ".yaml", time.UnixMilli(42))
	assert.Equal(t, filepath.Join("out", "curl_42.yaml"), got)
}

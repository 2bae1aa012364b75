package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/pmplus/packages/collection"
	"github.com/abdul-hamid-achik/pmplus/packages/core/macro"
	"github.com/abdul-hamid-achik/pmplus/packages/curl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func TestExcluder(t *testing.T) {
	ex, err := newExcluder([]string{"shared", "/_draft\\.ya?ml$/", ""})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"suites/shared/login.yaml", true},
		{"suites/users_draft.yml", true},
		{"suites/users_draft.json", false},
		{"suites/users.yaml", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ex.match(tt.path))
		})
	}

	_, err = newExcluder([]string{"/([/"})
	assert.Error(t, err)
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.yaml"))
	touch(t, filepath.Join(dir, "b.json"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, ".pmplus.config.json"))
	touch(t, filepath.Join(dir, "shared", "c.yml"))
	touch(t, filepath.Join(dir, "nested", "d.yml"))

	ex, err := newExcluder([]string{"shared"})
	require.NoError(t, err)

	files, err := collectFiles([]string{dir}, isSourceFile, ex)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "nested", "d.yml"),
	}, files)

	files, err = collectFiles([]string{dir}, isCollectionFile, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.json")}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing")}, isSourceFile, nil)
	assert.Error(t, err)
}

func TestWatchDirs(t *testing.T) {
	dir := t.TempDir()
	dirs := watchDirs([]string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "sub", "c.yaml"),
	})
	assert.Equal(t, []string{dir, filepath.Join(dir, "sub")}, dirs)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"format", &collection.FormatError{File: "a.json", Reason: "no item"}, ExitParseError},
		{"wrapped cycle", fmt.Errorf("compile: %w", &macro.IncludeCycleError{Chain: []string{"a", "a"}}), ExitParseError},
		{"depth", &macro.IncludeDepthError{Path: "a", Depth: 16}, ExitParseError},
		{"curl", fmt.Errorf("x: %w", curl.ErrNoURL), ExitParseError},
		{"explicit", withExitCode(ExitConfigError, errors.New("bad")), ExitConfigError},
		{"other", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
	assert.NoError(t, withExitCode(ExitUsageError, nil))
}

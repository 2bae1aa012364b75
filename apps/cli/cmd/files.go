package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/abdul-hamid-achik/pmplus/packages/core/config"
)

// excluder skips paths matching any --exclude pattern. A pattern written as
// /regex/ is a regular expression, anything else a plain substring.
type excluder []*regexp.Regexp

func newExcluder(patterns []string) (excluder, error) {
	var ex excluder
	for _, p := range patterns {
		if p == "" {
			continue
		}
		expr := regexp.QuoteMeta(p)
		if len(p) > 2 && strings.HasPrefix(p, "/") && strings.HasSuffix(p, "/") {
			expr = p[1 : len(p)-1]
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		ex = append(ex, re)
	}
	return ex, nil
}

func (ex excluder) match(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, re := range ex {
		if re.MatchString(slashed) {
			return true
		}
	}
	return false
}

func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func isCollectionFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json" &&
		!slices.Contains(config.ConfigFilenames, filepath.Base(path))
}

func isSourceFile(path string) bool {
	return isDocumentFile(path) || isCollectionFile(path)
}

// collectFiles expands directories into the files below them accepted by
// keep, dropping excluded paths.
func collectFiles(args []string, keep func(string) bool, ex excluder) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			if keep(arg) && !ex.match(arg) {
				files = append(files, arg)
			}
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != arg && ex.match(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && keep(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

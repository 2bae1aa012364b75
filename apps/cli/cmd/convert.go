package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/pmplus/packages/collection"
	"github.com/abdul-hamid-achik/pmplus/packages/core/compiler"
	"github.com/abdul-hamid-achik/pmplus/packages/core/config"
	"github.com/abdul-hamid-achik/pmplus/packages/core/document"
	"github.com/abdul-hamid-achik/pmplus/packages/flatten"
	"github.com/abdul-hamid-achik/pmplus/packages/outpath"
	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/cobra"
)

var (
	dryRunFlag  bool
	watchFlag   bool
	excludeFlag []string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file|directory>...",
	Short: "Convert YAML documents to collections and collections to YAML",
	Long: `Convert each .yaml/.yml document into a Postman collection (.json) and
each .json collection into a YAML document. The output is written next to the
input with the other extension; an existing file is never overwritten, a
_<unix-millis> suffix is added instead.

Examples:
  pmplus convert api.yaml
  pmplus convert exported.json
  pmplus convert ./suites --exclude /_draft/ --exclude shared
  pmplus convert api.yaml --dry-run
  pmplus convert ./suites --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: convertCommand,
}

func init() {
	convertCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Print a diff against the existing output instead of writing")
	convertCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch files for changes and convert again")
	convertCmd.Flags().StringSliceVarP(&excludeFlag, "exclude", "x", nil, "Skip paths containing this text, or matching /regex/ (repeatable)")
}

func convertCommand(cmd *cobra.Command, args []string) error {
	ex, err := newExcluder(appConfig.Merge(&config.Config{Exclude: excludeFlag}).Exclude)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	files, err := collectFiles(args, isSourceFile, ex)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	if len(files) == 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("no .yaml, .yml or .json files found"))
	}

	errs := convertAll(files)

	if watchFlag {
		return watch(cmd, files)
	}

	if len(files) > 1 {
		console.FormatSummary(len(files)-len(errs), len(errs))
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return withExitCode(exitCode(errs[0]), fmt.Errorf("%d of %d files failed to convert", len(errs), len(files)))
	}
}

// convertAll converts files in order. With more than one file a failure is
// printed and the next file is tried.
func convertAll(files []string) []error {
	var errs []error
	for _, file := range files {
		if err := convertFile(file); err != nil {
			if len(files) > 1 {
				console.FormatError(err)
			}
			errs = append(errs, err)
		}
	}
	return errs
}

func convertFile(path string) error {
	data, ext, err := render(path)
	if err != nil {
		return err
	}

	if dryRunFlag {
		return printDiff(path, ext, data)
	}

	out := outpath.Derive(path, ext)
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	console.Saved(out)
	return nil
}

// render converts one file in memory and returns the output and its extension.
func render(path string) ([]byte, string, error) {
	switch {
	case isDocumentFile(path):
		col, err := newCompiler().CompileFile(path)
		if err != nil {
			return nil, "", err
		}
		data, err := collection.Marshal(col)
		return data, ".json", err

	case strings.EqualFold(filepath.Ext(path), ".json"):
		f := flatten.New(flatten.WithWarnFunc(console.Warnf))
		doc, err := f.FlattenFile(path)
		if err != nil {
			return nil, "", err
		}
		data, err := document.Marshal(doc)
		return data, appConfig.DefaultExtension, err
	}
	return nil, "", fmt.Errorf("%s: unsupported file type", path)
}

func newCompiler() *compiler.Compiler {
	return compiler.New(
		compiler.WithExtension(appConfig.DefaultExtension),
		compiler.WithMaxDepth(appConfig.MaxIncludeDepth),
		compiler.WithWarnFunc(console.Warnf),
		compiler.WithInfoFunc(console.Infof),
	)
}

// printDiff shows what converting would change in the output file that
// carries the input's own name.
func printDiff(path, ext string, data []byte) error {
	target := outpath.Plain(path, ext)
	old, err := os.ReadFile(target)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	edits := udiff.Strings(string(old), string(data))
	if len(edits) == 0 {
		console.Infof("%s unchanged", target)
		return nil
	}
	unified, err := udiff.ToUnified("a/"+target, "b/"+target, string(old), edits, 3)
	if err != nil {
		return fmt.Errorf("failed to diff %s: %w", target, err)
	}
	console.FormatDiff(unified)
	return nil
}

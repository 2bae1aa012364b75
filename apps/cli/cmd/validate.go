package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/pmplus/packages/core/env"
	"github.com/abdul-hamid-achik/pmplus/packages/lint"
	"github.com/abdul-hamid-achik/pmplus/packages/output"
	"github.com/spf13/cobra"
)

var (
	validateOutputFlag     string
	validateOutputFileFlag string
	validateEnvFlag        string
	validateSchemaFlag     string
	validateStrictFlag     bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <collection.json|directory>...",
	Short: "Check compiled collections for common mistakes",
	Long: `Validate Postman collections against a structural schema and warn about
items without a meaningful name, URLs not starting with {{domain}}, items
without tests and form-data files that do not exist. Warnings never fail the
command unless --strict is given.

Examples:
  pmplus validate api.json
  pmplus validate ./suites --env staging.postman_environment.json
  pmplus validate api.json --output junit --output-file lint.xml`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func init() {
	validateCmd.Flags().StringVarP(&validateOutputFlag, "output", "o", "console", "Output format: console, json, junit")
	validateCmd.Flags().StringVar(&validateOutputFileFlag, "output-file", "", "Write output to file (default: stdout)")
	validateCmd.Flags().StringVarP(&validateEnvFlag, "env", "e", "", "Environment file used to report unresolved {{variables}}")
	validateCmd.Flags().StringVar(&validateSchemaFlag, "schema", "", "JSON Schema file replacing the built-in one")
	validateCmd.Flags().BoolVar(&validateStrictFlag, "strict", false, "Exit with status 1 when there are warnings")
}

// Formatter interface for all validation output formatters
type Formatter interface {
	FormatReport(r *lint.Report)
	FormatError(err error)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush() error
}

func validateCommand(cmd *cobra.Command, args []string) error {
	ex, err := newExcluder(appConfig.Exclude)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	files, err := collectFiles(args, isCollectionFile, ex)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	if len(files) == 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("no .json files found"))
	}

	linter, err := newLinter()
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	var outWriter *os.File
	if validateOutputFileFlag != "" {
		outWriter, err = os.Create(validateOutputFileFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer outWriter.Close()
	}

	var formatter Formatter
	switch strings.ToLower(validateOutputFlag) {
	case "json":
		opts := []output.JSONOption{output.JSONWithWriter(cmd.OutOrStdout())}
		if outWriter != nil {
			opts = append(opts, output.JSONWithWriter(outWriter))
		}
		formatter = output.NewJSONFormatter(opts...)
	case "junit":
		opts := []output.JUnitOption{output.JUnitWithWriter(cmd.OutOrStdout())}
		if outWriter != nil {
			opts = append(opts, output.JUnitWithWriter(outWriter))
		}
		formatter = output.NewJUnitFormatter(opts...)
	case "console":
		if outWriter != nil {
			formatter = output.NewConsoleFormatter(
				output.WithWriter(outWriter),
				output.WithErrWriter(cmd.ErrOrStderr()),
				output.WithNoColor(true),
			)
		} else {
			formatter = console
		}
	default:
		return withExitCode(ExitUsageError, fmt.Errorf("unknown output format %q", validateOutputFlag))
	}

	var broken, warned int
	for _, file := range files {
		report, err := linter.LintFile(file)
		if err != nil {
			formatter.FormatError(err)
			broken++
			continue
		}
		formatter.FormatReport(report)
		if !report.OK() {
			warned++
		}
	}

	if flushable, ok := formatter.(Flushable); ok {
		if err := flushable.Flush(); err != nil {
			return err
		}
	}

	switch {
	case broken > 0:
		return withExitCode(ExitParseError, fmt.Errorf("%d of %d files could not be validated", broken, len(files)))
	case warned > 0 && validateStrictFlag:
		return withExitCode(ExitWarnings, fmt.Errorf("%d of %d files have warnings", warned, len(files)))
	}
	return nil
}

func newLinter() (*lint.Linter, error) {
	var opts []lint.Option

	schema := validateSchemaFlag
	if schema == "" {
		schema = appConfig.Schema
	}
	if schema != "" {
		if _, err := os.Stat(schema); err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		opts = append(opts, lint.WithSchemaFile(schema))
	}

	if validateEnvFlag != "" {
		e, err := env.LoadEnvironment(validateEnvFlag)
		if err != nil {
			return nil, err
		}
		opts = append(opts, lint.WithEnvironment(e))
	}

	return lint.New(opts...), nil
}

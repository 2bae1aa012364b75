package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/abdul-hamid-achik/pmplus/packages/collection"
	"github.com/abdul-hamid-achik/pmplus/packages/core/document"
	"github.com/abdul-hamid-achik/pmplus/packages/core/env"
	"github.com/abdul-hamid-achik/pmplus/packages/core/macro"
	"github.com/abdul-hamid-achik/pmplus/packages/core/scope"
	"github.com/spf13/cobra"
)

var (
	listEnvFlag      string
	listEnvFilesFlag []string
)

var listCmd = &cobra.Command{
	Use:   "list <file|directory>...",
	Short: "List the steps of documents and collections",
	Long: `List the request steps of YAML documents, after includes are expanded,
and the items of collections, folders indented.

With --env or --env-file, URLs are shown with their {{variables}} filled in
and variables that nothing defines are reported. Names set by the steps'
own scripts count as defined.

Examples:
  pmplus list api.yaml
  pmplus list ./suites/
  pmplus list api.json --env staging.postman_environment.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func init() {
	listCmd.Flags().StringVarP(&listEnvFlag, "env", "e", "", "Environment file used to resolve {{variables}}")
	listCmd.Flags().StringSliceVar(&listEnvFilesFlag, "env-file", nil, ".env file used to resolve {{variables}} (repeatable)")
}

func listCommand(cmd *cobra.Command, args []string) error {
	ex, err := newExcluder(appConfig.Exclude)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	files, err := collectFiles(args, isSourceFile, ex)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	if len(files) == 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("no .yaml, .yml or .json files found"))
	}

	base, err := listResolver()
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	out := cmd.OutOrStdout()
	for _, file := range files {
		fmt.Fprintf(out, "\n%s:\n", file)
		var resolver *env.Resolver
		if base != nil {
			resolver = base.Clone()
		}
		if isDocumentFile(file) {
			err = listDocument(out, file, resolver)
		} else {
			err = listCollection(out, file, resolver)
		}
		if err != nil {
			console.FormatError(err)
		}
	}

	return nil
}

// listResolver returns nil when no variables were given.
func listResolver() (*env.Resolver, error) {
	if listEnvFlag == "" && len(listEnvFilesFlag) == 0 {
		return nil, nil
	}

	resolver := env.NewResolver()
	resolver.SetWarnFunc(console.Warnf)
	resolver.SetVariable(env.DomainKey, appConfig.Domain)

	if listEnvFlag != "" {
		e, err := env.LoadEnvironment(listEnvFlag)
		if err != nil {
			return nil, err
		}
		resolver.SetVariables(e.Variables())
	}
	if len(listEnvFilesFlag) > 0 {
		vars, err := env.LoadDotEnv(listEnvFilesFlag...)
		if err != nil {
			return nil, err
		}
		for k, v := range vars {
			resolver.SetVariable(k, v)
		}
	}
	return resolver, nil
}

// printURL writes the request line, resolved when resolver is set.
func printURL(w io.Writer, indent, method, url string, resolver *env.Resolver) {
	if resolver == nil {
		fmt.Fprintf(w, "%s%s %s\n", indent, method, url)
		return
	}
	line := fmt.Sprintf("%s%s %s", indent, method, resolver.Resolve(url))
	if resolver.HasUnresolvedVariables(url) {
		line += " (unresolved)"
	}
	fmt.Fprintln(w, line)
}

func listDocument(w io.Writer, path string, resolver *env.Resolver) error {
	doc, err := document.ParseFile(path)
	if err != nil {
		return err
	}
	expander := macro.NewExpander(
		macro.WithExtension(appConfig.DefaultExtension),
		macro.WithMaxDepth(appConfig.MaxIncludeDepth),
		macro.WithWarnFunc(console.Warnf),
	)
	steps, err := expander.Expand(doc, scope.New())
	if err != nil {
		return err
	}

	if resolver != nil {
		for _, r := range steps {
			resolver.DeclareFromScript(r.Step.Body.Prerequest)
			resolver.DeclareFromScript(r.Step.Body.Test)
		}
	}

	for _, r := range steps {
		fmt.Fprintf(w, "  - %s\n", r.Step.Name)
		printURL(w, "    ", r.Step.Body.Method, r.Step.Body.URL, resolver)
		if r.File != doc.Path {
			fmt.Fprintf(w, "    from: %s\n", r.File)
		}
	}
	return nil
}

func listCollection(w io.Writer, path string, resolver *env.Resolver) error {
	c, err := collection.Load(path)
	if err != nil {
		return err
	}
	if resolver != nil {
		declareItems(resolver, c.Item)
	}
	listItems(w, c.Item, 1, resolver)
	return nil
}

func declareItems(resolver *env.Resolver, items []*collection.Item) {
	for _, item := range items {
		declareItems(resolver, item.Item)
		for _, ev := range item.Event {
			resolver.DeclareFromScript(strings.Join(ev.Script.Exec, "\n"))
		}
	}
}

func listItems(w io.Writer, items []*collection.Item, depth int, resolver *env.Resolver) {
	indent := strings.Repeat("  ", depth)
	for _, item := range items {
		if item.IsFolder() {
			fmt.Fprintf(w, "%s+ %s/\n", indent, item.Name)
			listItems(w, item.Item, depth+1, resolver)
			continue
		}
		fmt.Fprintf(w, "%s- %s\n", indent, item.Name)
		if resolver != nil && item.Request != nil && item.Request.URL != nil {
			printURL(w, indent+"  ", item.Request.Method, item.Request.URL.Raw, resolver)
		}
	}
}

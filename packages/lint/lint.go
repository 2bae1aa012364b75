// Package lint reports advisory problems in compiled collections before they
// are handed to the runner. Nothing here aborts a run.
package lint

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/pmplus/packages/builtin"
	"github.com/abdul-hamid-achik/pmplus/packages/collection"
	"github.com/abdul-hamid-achik/pmplus/packages/core/env"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var defaultSchema []byte

// Issue is a problem found on one item.
type Issue struct {
	Item    string
	Message string
	// Skipped marks items the runner cannot send at all.
	Skipped bool
}

// Report collects the findings for one collection file.
type Report struct {
	File string
	// Items lists every leaf item checked, in collection order.
	Items  []string
	Schema []string
	Issues []Issue
}

// OK reports whether nothing was found.
func (r *Report) OK() bool {
	return len(r.Schema) == 0 && len(r.Issues) == 0
}

// ByItem groups issues by item name, in first-seen order.
func (r *Report) ByItem() ([]string, map[string][]Issue) {
	var order []string
	grouped := make(map[string][]Issue)
	for _, is := range r.Issues {
		if _, ok := grouped[is.Item]; !ok {
			order = append(order, is.Item)
		}
		grouped[is.Item] = append(grouped[is.Item], is)
	}
	return order, grouped
}

type Linter struct {
	schema      gojsonschema.JSONLoader
	environment *env.Environment
	dynamic     *builtin.Registry
}

type Option func(*Linter)

// WithSchemaFile validates against the JSON Schema at path instead of the
// built-in one.
func WithSchemaFile(path string) Option {
	return func(l *Linter) {
		if path == "" {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		l.schema = gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs))
	}
}

// WithDynamicVariables replaces the registry of runner-provided {{$name}}
// variables.
func WithDynamicVariables(r *builtin.Registry) Option {
	return func(l *Linter) {
		l.dynamic = r
	}
}

// WithEnvironment enables the unresolved variable check against e.
func WithEnvironment(e *env.Environment) Option {
	return func(l *Linter) {
		l.environment = e
	}
}

func New(opts ...Option) *Linter {
	l := &Linter{
		schema:  gojsonschema.NewBytesLoader(defaultSchema),
		dynamic: builtin.NewRegistry(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LintFile reads and lints the collection at path. Attachment paths are
// looked up under the directory named after the file without its extension.
func (l *Linter) LintFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return l.Lint(data, path)
}

// Lint checks data. A collection failing the format precondition is an
// error; everything else is reported.
func (l *Linter) Lint(data []byte, file string) (*Report, error) {
	if err := collection.Check(data, file); err != nil {
		return nil, err
	}

	report := &Report{File: file}

	result, err := gojsonschema.Validate(l.schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	for _, desc := range result.Errors() {
		report.Schema = append(report.Schema, desc.String())
	}

	var resolver *env.Resolver
	if l.environment != nil {
		resolver = env.NewResolver()
		resolver.SetVariables(l.environment.Variables())
		declareScripts(resolver, gjson.GetBytes(data, "item"))
	}

	attachDir := strings.TrimSuffix(file, filepath.Ext(file))
	forEachLeaf(gjson.GetBytes(data, "item"), func(item gjson.Result) {
		report.Items = append(report.Items, item.Get("name").String())
		report.Issues = append(report.Issues, l.checkItem(item, attachDir, resolver)...)
	})
	return report, nil
}

func forEachLeaf(items gjson.Result, fn func(gjson.Result)) {
	items.ForEach(func(_, item gjson.Result) bool {
		if sub := item.Get("item"); sub.IsArray() {
			forEachLeaf(sub, fn)
		} else {
			fn(item)
		}
		return true
	})
}

func declareScripts(r *env.Resolver, items gjson.Result) {
	forEachLeaf(items, func(item gjson.Result) {
		item.Get("event").ForEach(func(_, ev gjson.Result) bool {
			r.DeclareFromScript(scriptText(ev.Get("script.exec")))
			return true
		})
	})
}

func scriptText(exec gjson.Result) string {
	if !exec.IsArray() {
		return exec.String()
	}
	var lines []string
	for _, l := range exec.Array() {
		lines = append(lines, l.String())
	}
	return strings.Join(lines, "\n")
}

func urlText(u gjson.Result) string {
	if u.IsObject() {
		return u.Get("raw").String()
	}
	return u.String()
}

func (l *Linter) checkItem(item gjson.Result, attachDir string, resolver *env.Resolver) []Issue {
	name := item.Get("name").String()
	req := item.Get("request")
	u := req.Get("url")
	if !req.Exists() || !u.Exists() {
		return []Issue{{Item: name, Message: "no request or url, skipping", Skipped: true}}
	}

	var issues []Issue
	add := func(format string, args ...any) {
		issues = append(issues, Issue{Item: name, Message: fmt.Sprintf(format, args...)})
	}

	if req.Get("body.mode").String() == "formdata" {
		req.Get("body.formdata").ForEach(func(_, f gjson.Result) bool {
			if f.Get("type").String() != "file" {
				return true
			}
			rel := f.Get("description").String()
			if rel == "" {
				rel = f.Get("src").String()
			}
			if _, err := os.Stat(filepath.Join(attachDir, rel)); err != nil {
				add("file not found: %s (looked in %s)", rel, attachDir)
			}
			return true
		})
	}

	if strings.HasPrefix(name, "http") {
		add("add meaningful name")
	}

	raw := urlText(u)
	if !strings.HasPrefix(raw, "{{domain}}") {
		add("{{domain}} not found in url")
	}

	hasTest := false
	item.Get("event").ForEach(func(_, ev gjson.Result) bool {
		if ev.Get("listen").String() == "test" {
			hasTest = true
			return false
		}
		return true
	})
	if !hasTest && !strings.EqualFold(name, "login") {
		add("no tests found")
	}

	texts := []string{raw, req.Get("body.raw").String()}
	req.Get("header").ForEach(func(_, h gjson.Result) bool {
		texts = append(texts, h.Get("value").String())
		return true
	})

	dynamic := make(map[string]bool)
	for _, text := range texts {
		for _, v := range l.dynamic.Unknown(text) {
			if !dynamic[v] {
				dynamic[v] = true
				add("unknown dynamic variable {{$%s}}", v)
			}
		}
	}

	if resolver != nil {
		seen := make(map[string]bool)
		for _, text := range texts {
			for _, v := range resolver.GetUnresolvedVariables(text) {
				if !seen[v] {
					seen[v] = true
					add("unresolved variable {{%s}}", v)
				}
			}
		}
	}
	return issues
}

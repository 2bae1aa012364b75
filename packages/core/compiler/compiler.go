package compiler

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/pmplus/packages/collection"
	"github.com/abdul-hamid-achik/pmplus/packages/core/document"
	"github.com/abdul-hamid-achik/pmplus/packages/core/macro"
	"github.com/abdul-hamid-achik/pmplus/packages/core/scope"
	"github.com/google/uuid"
)

var fileMacro = regexp.MustCompile(`file\(([A-Za-z,._\-0-9 /=]*)\)`)

// Compiler compiles declarative documents to wire collections.
type Compiler struct {
	ext      string
	maxDepth int
	warn     macro.WarnFunc
	info     macro.WarnFunc
	newID    func() string
}

// Option is a functional option for Compiler.
type Option func(*Compiler)

// WithExtension sets the default extension of include targets.
func WithExtension(ext string) Option {
	return func(c *Compiler) {
		c.ext = ext
	}
}

// WithMaxDepth sets the include nesting limit.
func WithMaxDepth(depth int) Option {
	return func(c *Compiler) {
		c.maxDepth = depth
	}
}

// WithWarnFunc sets the receiver of non-fatal warnings.
func WithWarnFunc(fn macro.WarnFunc) Option {
	return func(c *Compiler) {
		c.warn = fn
	}
}

// WithInfoFunc sets the receiver of "... <path>" progress lines.
func WithInfoFunc(fn macro.WarnFunc) Option {
	return func(c *Compiler) {
		c.info = fn
	}
}

// WithIDFunc sets the generator of collection ids.
func WithIDFunc(fn func() string) Option {
	return func(c *Compiler) {
		c.newID = fn
	}
}

// New creates a compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		ext:      macro.DefaultExtension,
		maxDepth: macro.DefaultMaxDepth,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Compiler) warnf(format string, args ...any) {
	if c.warn != nil {
		c.warn(format, args...)
	}
}

func (c *Compiler) infof(format string, args ...any) {
	if c.info != nil {
		c.info(format, args...)
	}
}

// CompileFile parses and compiles the document at path.
func (c *Compiler) CompileFile(path string) (*collection.Collection, error) {
	doc, err := document.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return c.Compile(doc)
}

// Compile expands doc and compiles each resolved request step in order.
func (c *Compiler) Compile(doc *document.Document) (*collection.Collection, error) {
	expander := macro.NewExpander(
		macro.WithExtension(c.ext),
		macro.WithMaxDepth(c.maxDepth),
		macro.WithWarnFunc(c.warn),
		macro.WithInfoFunc(c.info),
	)

	resolved, err := expander.Expand(doc, scope.New())
	if err != nil {
		return nil, err
	}

	col := &collection.Collection{
		Info: collection.Info{
			PostmanID:   c.newID(),
			Name:        doc.Name,
			Description: collection.Text(doc.Description),
			Schema:      collection.SchemaV21,
		},
		Item: make([]*collection.Item, 0, len(resolved)),
	}

	for _, r := range resolved {
		item, err := c.CompileStep(r)
		if err != nil {
			return nil, err
		}
		col.Item = append(col.Item, item)
	}
	return col, nil
}

// CompileStep compiles one resolved request step to a wire item.
func (c *Compiler) CompileStep(r *macro.Resolved) (*collection.Item, error) {
	step := r.Step
	b := step.Body
	if b == nil || b.Method == "" {
		return nil, &document.StepShapeError{
			File:    r.File,
			Step:    step.Name,
			Line:    step.Line,
			Message: "no verb field (GET, POST, ...)",
		}
	}

	item := &collection.Item{
		Name: step.Name,
		Request: &collection.Request{
			Method: b.Method,
			Header: compileHeaders(b.Headers),
			Body:   compileBody(b.Body),
			URL:    compileURL(b.URL, b.URLVars),
		},
	}

	prerequest := b.Prerequest
	if r.Scope != nil && r.Scope.Len() > 0 {
		prerequest = r.Scope.Prologue() + "\n" + prerequest
	}

	fragments := c.readFragments(b.Include, r.Dir)
	item.Event = appendEvent(item.Event, "prerequest", fragments, prerequest)
	item.Event = appendEvent(item.Event, "test", fragments, b.Test)

	c.passthrough(item, b.Extra, r.File)
	return item, nil
}

func compileHeaders(headers []*document.Header) []*collection.Header {
	out := make([]*collection.Header, 0, len(headers))
	for _, h := range headers {
		out = append(out, &collection.Header{Key: h.Key, Type: "text", Value: h.Value})
	}
	return out
}

// compileURL splits raw on "/" into host and path segments. The split is
// syntactic only; a "/" inside the query string is split as well.
func compileURL(raw string, vars []*document.Field) *collection.URL {
	segments := strings.Split(raw, "/")
	u := &collection.URL{
		Raw:      raw,
		Host:     []string{segments[0]},
		Path:     segments[1:],
		Variable: make([]*collection.Variable, 0, len(vars)),
	}
	for _, v := range vars {
		u.Variable = append(u.Variable, &collection.Variable{Key: v.Key, Value: v.Value})
	}
	return u
}

// compileBody assigns mode from the first authored body key. Every formdata
// entry is a file() candidate; entries that are not are dropped.
func compileBody(b *document.Body) *collection.Body {
	if b == nil {
		return nil
	}

	out := &collection.Body{Mode: b.Mode()}
	for _, key := range b.Keys {
		switch key {
		case "raw":
			out.Raw = b.Raw
		case "formdata":
			out.FormData = make([]*collection.FormParam, 0, len(b.FormData))
			for _, f := range b.FormData {
				if p := fileParam(f); p != nil {
					out.FormData = append(out.FormData, p)
				}
			}
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]any)
			}
			out.Extra[key] = b.Other[key]
		}
	}
	return out
}

func fileParam(f *document.FormField) *collection.FormParam {
	m := fileMacro.FindStringSubmatch(f.Candidate())
	if m == nil || m[1] == "" {
		return nil
	}

	key := "file"
	if k, ok := f.Get("key"); ok && k != "" {
		key = k
	}
	return &collection.FormParam{
		Key:         key,
		Description: collection.Text(m[1]),
		Type:        "file",
		Src:         m[1],
	}
}

// readFragments reads the script fragment files named by include, relative
// to dir. Missing files contribute nothing. The result ends in ";\n" when at
// least one fragment was read.
func (c *Compiler) readFragments(include []string, dir string) string {
	var parts []string
	for _, name := range include {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			c.warnf("skipping script %s: %v", path, err)
			continue
		}
		c.infof("... %s", path)
		parts = append(parts, string(data))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ";\n") + ";\n"
}

func appendEvent(events []*collection.Event, listen, fragments, own string) []*collection.Event {
	if fragments == "" && own == "" {
		return events
	}

	var exec collection.Lines
	if fragments != "" {
		exec = append(exec, strings.Split(fragments, "\n")...)
	}
	if own != "" {
		exec = append(exec, strings.Split(own, "\n")...)
	}

	return append(events, &collection.Event{
		Listen: listen,
		Script: collection.Script{Type: "text/javascript", Exec: exec},
	})
}

var reservedItemKeys = map[string]bool{
	"name": true, "event": true, "request": true, "item": true,
}

// passthrough copies authored metadata onto the wire item.
func (c *Compiler) passthrough(item *collection.Item, extra []*document.Field, file string) {
	for _, f := range extra {
		switch f.Key {
		case "protocolProfileBehavior":
			if m, ok := f.Value.(map[string]any); ok {
				item.ProtocolProfileBehavior = m
				continue
			}
		case "response":
			item.Response = f.Value
			continue
		case "id":
			if s, ok := f.Value.(string); ok {
				item.ID = s
				continue
			}
		case "description":
			if s, ok := f.Value.(string); ok {
				item.Description = collection.Text(s)
				continue
			}
		}

		if reservedItemKeys[f.Key] {
			c.warnf("%s: [%s] ignoring field %q", file, item.Name, f.Key)
			continue
		}
		if item.Extra == nil {
			item.Extra = make(map[string]any)
		}
		item.Extra[f.Key] = f.Value
	}
}

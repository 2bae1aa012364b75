package curl

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/pmplus/packages/core/document"
	"github.com/abdul-hamid-achik/pmplus/packages/flatten"
)

// DefaultName is the name of documents generated from curl commands.
const DefaultName = "From Curl"

// Converter converts curl commands to declarative documents.
type Converter struct {
	name string
}

// Option is a functional option for Converter.
type Option func(*Converter)

// WithName sets the generated document name.
func WithName(name string) Option {
	return func(c *Converter) {
		c.name = name
	}
}

// NewConverter creates a new curl converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{name: DefaultName}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConvertCommand converts a single curl command to a one-step document.
func (c *Converter) ConvertCommand(cmd string) (*document.Document, error) {
	req, err := Parse(cmd)
	if err != nil {
		return nil, err
	}
	return c.ToDocument(req), nil
}

// ConvertFile converts a file of curl commands, one per line with backslash
// continuations, to a document with one step per command. Blank lines and
// lines starting with # are skipped.
func (c *Converter) ConvertFile(path string) (*document.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var commands []string
	var current strings.Builder
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if current.Len() == 0 && (line == "" || strings.HasPrefix(line, "#")) {
			continue
		}
		if strings.HasSuffix(line, "\\") {
			current.WriteString(strings.TrimSuffix(line, "\\"))
			current.WriteString(" ")
			continue
		}
		current.WriteString(line)
		commands = append(commands, current.String())
		current.Reset()
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if current.Len() > 0 {
		commands = append(commands, current.String())
	}

	doc := &document.Document{Name: c.name, Version: document.DefaultVersion}
	for i, cmd := range commands {
		req, err := Parse(cmd)
		if err != nil {
			return nil, fmt.Errorf("failed to convert command %d: %w", i+1, err)
		}
		doc.Steps = append(doc.Steps, Step(req))
	}
	if len(doc.Steps) == 0 {
		return nil, fmt.Errorf("%s: no curl commands found", path)
	}
	return doc, nil
}

// ToDocument wraps the step for req in a document.
func (c *Converter) ToDocument(req *Request) *document.Document {
	return &document.Document{
		Name:    c.name,
		Version: document.DefaultVersion,
		Steps:   []*document.Step{Step(req)},
	}
}

// Step builds the request step "<METHOD> <path>" for req. The URL is
// templated on {{domain}}. JSON data is pretty-printed when it parses.
func Step(req *Request) *document.Step {
	target := req.Path
	if req.Query != "" {
		target += "?" + req.Query
	}

	b := &document.StepBody{
		Method:      req.Method,
		URL:         "{{domain}}" + target,
		Headers:     make([]*document.Header, 0, len(req.Headers)),
		ScriptStubs: true,
	}
	for _, h := range req.Headers {
		b.Headers = append(b.Headers, &document.Header{Key: h.Name, Value: h.Value})
	}

	switch {
	case req.Data != "":
		raw := req.Data
		if document.IsJSONContent(b.Headers) {
			if t := flatten.FormatJSONBody(raw); t.Changed {
				raw = t.Text
			}
		}
		b.Body = &document.Body{}
		b.Body.Set("raw", raw)
	case len(req.Multipart) > 0:
		if fields := formData(req.Multipart); len(fields) > 0 {
			b.Body = &document.Body{}
			b.Body.Set("formdata", fields)
		}
	}

	return document.NewRequest(req.Method+" "+req.Path, b)
}

// formData turns -F key=@path fields into file() entries. Plain fields are
// left out since only file() entries compile.
func formData(fields map[string]string) []*document.FormField {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []*document.FormField
	for _, k := range keys {
		path, ok := strings.CutPrefix(fields[k], "@")
		if !ok || path == "" {
			continue
		}
		path, _, _ = strings.Cut(path, ";")
		out = append(out, &document.FormField{Fields: []*document.Field{
			{Key: "key", Value: k},
			{Key: "value", Value: fmt.Sprintf("file(%s)", path)},
		}})
	}
	return out
}

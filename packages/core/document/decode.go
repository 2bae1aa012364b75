package document

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseFile reads and decodes a declarative document.
func ParseFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(content, path)
}

// Parse decodes a declarative document. Steps are discriminated once here:
// strings become directives, single-key mappings become request steps.
func Parse(data []byte, filename string) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%s: failed to parse YAML: %w", filename, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%s: empty document", filename)
	}

	top := resolve(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: document is not a mapping", filename)
	}

	d := &decoder{file: filename}
	doc := &Document{Path: filename}
	var steps *yaml.Node

	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i], resolve(top.Content[i+1])
		switch key.Value {
		case "name":
			doc.Name = scalarText(val)
		case "description":
			doc.Description = scalarText(val)
		case "ver":
			doc.Version = scalarText(val)
		case "steps":
			steps = val
		}
	}

	if steps == nil || steps.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s: no steps found", filename)
	}

	for _, n := range steps.Content {
		step, err := d.step(resolve(n))
		if err != nil {
			return nil, err
		}
		doc.Steps = append(doc.Steps, step)
	}

	return doc, nil
}

type decoder struct {
	file string
}

func (d *decoder) shapeError(n *yaml.Node, step, format string, args ...any) error {
	return &StepShapeError{
		File:    d.file,
		Step:    step,
		Line:    n.Line,
		Message: fmt.Sprintf(format, args...),
	}
}

func (d *decoder) step(n *yaml.Node) (*Step, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return &Step{Kind: StepDirective, Directive: scalarText(n), Line: n.Line}, nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, d.shapeError(n, "", "a request step must be a single-key mapping, got %d keys", len(n.Content)/2)
		}
		name := scalarText(n.Content[0])
		val := resolve(n.Content[1])
		if val.Kind != yaml.MappingNode {
			return nil, d.shapeError(val, name, "step body is not an object")
		}
		body, err := d.stepBody(val, name)
		if err != nil {
			return nil, err
		}
		return &Step{Kind: StepRequest, Name: name, Body: body, Line: n.Line}, nil
	default:
		return nil, d.shapeError(n, "", "step must be a directive string or a mapping")
	}
}

func (d *decoder) stepBody(n *yaml.Node, name string) (*StepBody, error) {
	body := &StepBody{}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, resolve(n.Content[i+1])

		if isVerb(key) {
			if body.Method != "" {
				return nil, d.shapeError(val, name, "more than one verb field (%s, %s)", body.Method, key)
			}
			if val.Kind != yaml.ScalarNode {
				return nil, d.shapeError(val, name, "%s value must be a URL string", key)
			}
			body.Method = key
			body.URL = scalarText(val)
			continue
		}

		switch key {
		case "headers":
			headers, err := d.headers(val, name)
			if err != nil {
				return nil, err
			}
			body.Headers = headers
		case "urlvars":
			vars, err := d.fields(val, name, key)
			if err != nil {
				return nil, err
			}
			body.URLVars = vars
		case "body":
			if isNull(val) {
				continue
			}
			if val.Kind != yaml.MappingNode {
				return nil, d.shapeError(val, name, "'body' not object %s", val.Value)
			}
			b, err := d.body(val, name)
			if err != nil {
				return nil, err
			}
			body.Body = b
		case "prerequest":
			body.Prerequest = scalarText(val)
		case "test":
			body.Test = scalarText(val)
		case "include":
			include, err := d.include(val, name)
			if err != nil {
				return nil, err
			}
			body.Include = include
		default:
			v, err := decodeAny(val)
			if err != nil {
				return nil, d.shapeError(val, name, "%s: %v", key, err)
			}
			body.Extra = append(body.Extra, &Field{Key: key, Value: v})
		}
	}

	return body, nil
}

func (d *decoder) headers(n *yaml.Node, name string) ([]*Header, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, d.shapeError(n, name, "'headers' not object")
	}
	headers := make([]*Header, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		val := resolve(n.Content[i+1])
		if val.Kind != yaml.ScalarNode {
			return nil, d.shapeError(val, name, "header %s must be a string", n.Content[i].Value)
		}
		headers = append(headers, &Header{Key: n.Content[i].Value, Value: scalarText(val)})
	}
	return headers, nil
}

func (d *decoder) fields(n *yaml.Node, name, what string) ([]*Field, error) {
	if isNull(n) {
		return []*Field{}, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, d.shapeError(n, name, "'%s' not object", what)
	}
	fields := make([]*Field, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		v, err := decodeAny(resolve(n.Content[i+1]))
		if err != nil {
			return nil, d.shapeError(n.Content[i+1], name, "%s.%s: %v", what, n.Content[i].Value, err)
		}
		fields = append(fields, &Field{Key: n.Content[i].Value, Value: v})
	}
	return fields, nil
}

func (d *decoder) body(n *yaml.Node, name string) (*Body, error) {
	b := &Body{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, resolve(n.Content[i+1])
		if key == "mode" {
			continue
		}
		switch key {
		case "raw":
			if val.Kind != yaml.ScalarNode {
				return nil, d.shapeError(val, name, "body.raw must be text")
			}
			b.Set(key, scalarText(val))
		case "formdata":
			form, err := d.formData(val, name)
			if err != nil {
				return nil, err
			}
			b.Set(key, form)
		default:
			v, err := decodeAny(val)
			if err != nil {
				return nil, d.shapeError(val, name, "body.%s: %v", key, err)
			}
			b.Set(key, v)
		}
	}
	return b, nil
}

func (d *decoder) formData(n *yaml.Node, name string) ([]*FormField, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.shapeError(n, name, "body.formdata must be a list")
	}
	form := make([]*FormField, 0, len(n.Content))
	for _, item := range n.Content {
		item = resolve(item)
		switch item.Kind {
		case yaml.ScalarNode:
			form = append(form, &FormField{Text: scalarText(item)})
		case yaml.MappingNode:
			fields, err := d.fields(item, name, "formdata")
			if err != nil {
				return nil, err
			}
			form = append(form, &FormField{Fields: fields})
		default:
			return nil, d.shapeError(item, name, "formdata entries must be strings or mappings")
		}
	}
	return form, nil
}

func (d *decoder) include(n *yaml.Node, name string) ([]string, error) {
	var files []string
	switch n.Kind {
	case yaml.ScalarNode:
		for _, f := range strings.Split(scalarText(n), ",") {
			if f = strings.TrimSpace(f); f != "" {
				files = append(files, f)
			}
		}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			item = resolve(item)
			if item.Kind != yaml.ScalarNode {
				return nil, d.shapeError(item, name, "include entries must be file paths")
			}
			if f := strings.TrimSpace(scalarText(item)); f != "" {
				files = append(files, f)
			}
		}
	default:
		return nil, d.shapeError(n, name, "include must be a path or a list of paths")
	}
	return files, nil
}

func isVerb(key string) bool {
	for _, v := range Verbs {
		if v == key {
			return true
		}
	}
	return false
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func scalarText(n *yaml.Node) string {
	if isNull(n) || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

func decodeAny(n *yaml.Node) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

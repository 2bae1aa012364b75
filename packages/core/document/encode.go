package document

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Marshal encodes a document as YAML with 2-space indentation. Step body keys
// are written verb first, then headers, prerequest, body, test, passthrough
// metadata and urlvars.
func Marshal(doc *Document) ([]byte, error) {
	root, err := documentNode(doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile encodes a document and writes it to path.
func WriteFile(doc *Document, path string) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func documentNode(doc *Document) (*yaml.Node, error) {
	version := doc.Version
	if version == "" {
		version = DefaultVersion
	}

	steps := seqNode()
	for _, s := range doc.Steps {
		n, err := stepNode(s)
		if err != nil {
			return nil, err
		}
		steps.Content = append(steps.Content, n)
	}

	root := mapNode()
	appendPair(root, "name", strNode(doc.Name))
	appendPair(root, "description", strNode(doc.Description))
	appendPair(root, "ver", strNode(version))
	appendPair(root, "steps", steps)
	return root, nil
}

func stepNode(s *Step) (*yaml.Node, error) {
	if s.Kind == StepDirective {
		return strNode(s.Directive), nil
	}
	if s.Body == nil {
		return nil, fmt.Errorf("step %q has no body", s.Name)
	}

	b := s.Body
	body := mapNode()
	if b.Method != "" {
		appendPair(body, b.Method, strNode(b.URL))
	}

	headers := mapNode()
	for _, h := range b.Headers {
		appendPair(headers, h.Key, strNode(h.Value))
	}
	appendPair(body, "headers", headers)

	if b.Prerequest != "" || b.ScriptStubs {
		appendPair(body, "prerequest", strNode(b.Prerequest))
	}
	if b.Body != nil {
		n, err := bodyNode(b.Body)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", s.Name, err)
		}
		appendPair(body, "body", n)
	}
	if b.Test != "" || b.ScriptStubs {
		appendPair(body, "test", strNode(b.Test))
	}
	if len(b.Include) > 0 {
		include := seqNode()
		for _, f := range b.Include {
			include.Content = append(include.Content, strNode(f))
		}
		appendPair(body, "include", include)
	}
	for _, f := range b.Extra {
		n, err := anyNode(f.Value)
		if err != nil {
			return nil, fmt.Errorf("step %q: %s: %w", s.Name, f.Key, err)
		}
		appendPair(body, f.Key, n)
	}
	if b.URLVars != nil {
		vars, err := fieldsNode(b.URLVars)
		if err != nil {
			return nil, fmt.Errorf("step %q: urlvars: %w", s.Name, err)
		}
		appendPair(body, "urlvars", vars)
	}

	step := mapNode()
	appendPair(step, s.Name, body)
	return step, nil
}

func bodyNode(b *Body) (*yaml.Node, error) {
	n := mapNode()
	for _, key := range b.Keys {
		switch key {
		case "raw":
			appendPair(n, key, strNode(b.Raw))
		case "formdata":
			form := seqNode()
			for _, f := range b.FormData {
				if f.Fields == nil {
					form.Content = append(form.Content, strNode(f.Text))
					continue
				}
				entry, err := fieldsNode(f.Fields)
				if err != nil {
					return nil, err
				}
				form.Content = append(form.Content, entry)
			}
			appendPair(n, key, form)
		default:
			v, err := anyNode(b.Other[key])
			if err != nil {
				return nil, fmt.Errorf("body.%s: %w", key, err)
			}
			appendPair(n, key, v)
		}
	}
	return n, nil
}

func fieldsNode(fields []*Field) (*yaml.Node, error) {
	n := mapNode()
	for _, f := range fields {
		v, err := anyNode(f.Value)
		if err != nil {
			return nil, err
		}
		appendPair(n, f.Key, v)
	}
	return n, nil
}

func anyNode(v any) (*yaml.Node, error) {
	if s, ok := v.(string); ok {
		return strNode(s), nil
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}

func mapNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func seqNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func appendPair(m *yaml.Node, key string, val *yaml.Node) {
	m.Content = append(m.Content, strNode(key), val)
}

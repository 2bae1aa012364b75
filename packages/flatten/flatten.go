// Package flatten converts wire collections back into declarative documents.
// Folders are flattened: their leaves are spliced in place and the folder
// names are dropped.
package flatten

import (
	"encoding/json"
	"net/url"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/pmplus/packages/collection"
	"github.com/abdul-hamid-achik/pmplus/packages/core/document"
)

var scriptCleaner = strings.NewReplacer("\r", "", "\t", "  ")

// WarnFunc receives non-fatal conditions.
type WarnFunc func(format string, args ...any)

type Flattener struct {
	warn WarnFunc
}

type Option func(*Flattener)

func WithWarnFunc(fn WarnFunc) Option {
	return func(f *Flattener) {
		f.warn = fn
	}
}

func New(opts ...Option) *Flattener {
	f := &Flattener{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flattener) warnf(format string, args ...any) {
	if f.warn != nil {
		f.warn(format, args...)
	}
}

// FlattenFile loads, checks and flattens the collection at path.
func (f *Flattener) FlattenFile(path string) (*document.Document, error) {
	c, err := collection.Load(path)
	if err != nil {
		return nil, err
	}
	return f.Flatten(c), nil
}

// Flatten converts c to a declarative document.
func (f *Flattener) Flatten(c *collection.Collection) *document.Document {
	return &document.Document{
		Name:        c.Info.Name,
		Description: string(c.Info.Description),
		Version:     document.DefaultVersion,
		Steps:       f.steps(c.Item, nil),
	}
}

func (f *Flattener) steps(items []*collection.Item, out []*document.Step) []*document.Step {
	for _, item := range items {
		if item.IsFolder() {
			out = f.steps(item.Item, out)
			continue
		}
		if item.Request == nil {
			f.warnf("[%s] has no request, skipping", item.Name)
			continue
		}
		out = append(out, document.NewRequest(item.Name, f.stepBody(item)))
	}
	return out
}

func (f *Flattener) stepBody(item *collection.Item) *document.StepBody {
	req := item.Request
	b := &document.StepBody{Method: strings.ToUpper(req.Method)}
	if b.Method == "" {
		b.Method = "GET"
	}

	for _, h := range req.Header {
		b.SetHeader(h.Key, h.Value)
	}
	if b.Headers == nil {
		b.Headers = []*document.Header{}
	}

	for _, ev := range item.Event {
		text := scriptCleaner.Replace(strings.Join(ev.Script.Exec, "\n"))
		if strings.TrimSpace(text) == "" {
			continue
		}
		switch ev.Listen {
		case "prerequest":
			b.Prerequest = text
		case "test":
			b.Test = text
		}
	}

	if req.URL != nil {
		b.URL = f.decodeURL(item.Name, req.URL.Raw)
		if req.URL.Variable != nil {
			b.URLVars = make([]*document.Field, 0, len(req.URL.Variable))
			for _, v := range req.URL.Variable {
				b.URLVars = append(b.URLVars, &document.Field{Key: v.Key, Value: normalize(v.Value)})
			}
		}
	}

	b.Body = f.body(item.Name, req.Body, b.Headers)
	b.Extra = passthrough(item)
	return b
}

func (f *Flattener) decodeURL(name, raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		f.warnf("[%s] keeping url %q: %v", name, raw, err)
		return raw
	}
	return decoded
}

// body rebuilds the request body with the wire mode as its first key so a
// later compile assigns the same mode.
func (f *Flattener) body(name string, wire *collection.Body, headers []*document.Header) *document.Body {
	if wire == nil {
		return nil
	}

	keys := []string{"raw", "formdata"}
	extras := make([]string, 0, len(wire.Extra))
	for k := range wire.Extra {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	keys = append(keys, extras...)
	if wire.Mode != "" {
		keys = append([]string{wire.Mode}, keys...)
	}

	out := &document.Body{}
	for _, key := range keys {
		if out.Has(key) {
			continue
		}
		switch key {
		case "raw":
			if wire.Raw == "" && wire.Mode != "raw" {
				continue
			}
			out.Set("raw", f.raw(name, wire.Raw, headers))
		case "formdata":
			if wire.FormData == nil {
				continue
			}
			out.Set("formdata", formFields(wire.FormData))
		default:
			if v, ok := wire.Extra[key]; ok {
				out.Set(key, normalize(v))
			}
		}
	}
	if len(out.Keys) == 0 {
		return nil
	}
	return out
}

func (f *Flattener) raw(name, raw string, headers []*document.Header) string {
	if raw != "" && document.IsJSONContent(headers) {
		t := FormatJSONBody(raw)
		if t.Changed {
			raw = t.Text
		} else if t.Reason != "" {
			f.warnf("[%s] keeping raw body as written: %s", name, t.Reason)
		}
	}
	return scriptCleaner.Replace(raw)
}

// formFields drops entries with an empty key.
func formFields(params []*collection.FormParam) []*document.FormField {
	out := make([]*document.FormField, 0, len(params))
	for _, p := range params {
		if p.Key == "" {
			continue
		}
		ff := &document.FormField{Fields: []*document.Field{{Key: "key", Value: p.Key}}}
		add := func(key string, value any) {
			ff.Fields = append(ff.Fields, &document.Field{Key: key, Value: value})
		}
		if p.Type != "" {
			add("type", p.Type)
		}
		if p.Value != "" {
			add("value", p.Value)
		}
		if p.Src != nil {
			add("src", normalize(p.Src))
		}
		if p.Description != "" {
			add("description", string(p.Description))
		}
		if p.ContentType != "" {
			add("contentType", p.ContentType)
		}
		if p.Disabled {
			add("disabled", true)
		}
		out = append(out, ff)
	}
	return out
}

// passthrough carries item metadata other than name, request, event and
// response into the step.
func passthrough(item *collection.Item) []*document.Field {
	var out []*document.Field
	if item.ID != "" {
		out = append(out, &document.Field{Key: "id", Value: item.ID})
	}
	if item.Description != "" {
		out = append(out, &document.Field{Key: "description", Value: string(item.Description)})
	}
	if item.ProtocolProfileBehavior != nil {
		out = append(out, &document.Field{Key: "protocolProfileBehavior", Value: normalize(item.ProtocolProfileBehavior)})
	}

	keys := make([]string, 0, len(item.Extra))
	for k := range item.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, &document.Field{Key: k, Value: normalize(item.Extra[k])})
	}
	return out
}

// normalize converts json.Number values into int64 or float64 so they are
// written as YAML numbers.
func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}

package document

import (
	"fmt"
	"mime"
	"strings"
)

// Verbs is the fixed vocabulary of verb fields a step body may carry.
var Verbs = []string{
	"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "TRACE", "OPTIONS",
	"COPY", "LINK", "UNLINK", "PURGE", "LOCK", "UNLOCK", "PROPFIND", "VIEW",
}

// DefaultVersion is written to the ver field of generated documents.
const DefaultVersion = "1.0.0"

type Document struct {
	Path        string
	Name        string
	Description string
	Version     string
	Steps       []*Step
}

type StepKind int

const (
	StepDirective StepKind = iota
	StepRequest
)

func (k StepKind) String() string {
	switch k {
	case StepDirective:
		return "directive"
	case StepRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Step is one entry of a document's step list. Directive is set for
// StepDirective; Name and Body are set for StepRequest.
type Step struct {
	Kind      StepKind
	Directive string
	Name      string
	Body      *StepBody
	Line      int
}

// NewDirective returns a directive step.
func NewDirective(text string) *Step {
	return &Step{Kind: StepDirective, Directive: text}
}

// NewRequest returns a request step.
func NewRequest(name string, body *StepBody) *Step {
	return &Step{Kind: StepRequest, Name: name, Body: body}
}

type StepBody struct {
	Method      string
	URL         string
	Headers     []*Header
	URLVars     []*Field
	Body        *Body
	Prerequest  string
	Test        string
	// ScriptStubs writes prerequest and test even when they are empty, as
	// placeholders for the author to fill in.
	ScriptStubs bool
	Include     []string
	// Extra holds passthrough metadata (protocolProfileBehavior, response,
	// description, ...) in authored order.
	Extra []*Field
}

// Header returns the value of the first header with the given name.
func (b *StepBody) Header(name string) (string, bool) {
	for _, h := range b.Headers {
		if strings.EqualFold(h.Key, name) {
			return h.Value, true
		}
	}
	return "", false
}

// SetHeader replaces the value of an existing header or appends a new one.
func (b *StepBody) SetHeader(key, value string) {
	for _, h := range b.Headers {
		if h.Key == key {
			h.Value = value
			return
		}
	}
	b.Headers = append(b.Headers, &Header{Key: key, Value: value})
}

type Header struct {
	Key   string
	Value string
}

// Field is an ordered key/value pair. Value holds whatever the YAML decoder
// produced for the node (string, int, float64, bool, map[string]any, []any).
type Field struct {
	Key   string
	Value any
}

// Body is the request body of a step. Keys records the authored key order
// with any "mode" key removed.
type Body struct {
	Keys     []string
	Raw      string
	FormData []*FormField
	Other    map[string]any
}

// Mode reproduces the wire mode rule: the first key found on the body object.
// It is positional, not a raw-versus-formdata precedence.
func (b *Body) Mode() string {
	if b == nil || len(b.Keys) == 0 {
		return ""
	}
	return b.Keys[0]
}

func (b *Body) Has(key string) bool {
	if b == nil {
		return false
	}
	for _, k := range b.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Set records a body key at the end of the key order and stores its value.
func (b *Body) Set(key string, value any) {
	if !b.Has(key) {
		b.Keys = append(b.Keys, key)
	}
	switch key {
	case "raw":
		b.Raw, _ = value.(string)
	case "formdata":
		b.FormData, _ = value.([]*FormField)
	default:
		if b.Other == nil {
			b.Other = make(map[string]any)
		}
		b.Other[key] = value
	}
}

// FormField is one formdata entry: a plain string or a mapping.
type FormField struct {
	Text   string
	Fields []*Field
}

// Get returns the string value of a mapping entry field.
func (f *FormField) Get(key string) (string, bool) {
	for _, fld := range f.Fields {
		if fld.Key == key {
			s, ok := fld.Value.(string)
			return s, ok
		}
	}
	return "", false
}

// Candidate returns the text tested against the file() macro: the entry
// itself for strings, the value (or src) field for mappings.
func (f *FormField) Candidate() string {
	if f.Fields == nil {
		return f.Text
	}
	if v, ok := f.Get("value"); ok && v != "" {
		return v
	}
	v, _ := f.Get("src")
	return v
}

// IsJSONContent reports whether the headers declare a JSON media type.
func IsJSONContent(headers []*Header) bool {
	for _, h := range headers {
		if !strings.EqualFold(h.Key, "Content-Type") {
			continue
		}
		mediaType, _, err := mime.ParseMediaType(h.Value)
		if err != nil {
			continue
		}
		if mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") {
			return true
		}
	}
	return false
}

// StepShapeError reports a step whose structure cannot be compiled.
type StepShapeError struct {
	File    string
	Step    string
	Line    int
	Message string
}

func (e *StepShapeError) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if e.Step != "" {
		return fmt.Sprintf("%s: in [%s]: %s", loc, e.Step, e.Message)
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

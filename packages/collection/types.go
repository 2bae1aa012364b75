package collection

import (
	"encoding/json"
	"fmt"
)

// SchemaV21 is the schema identifier written to compiled collections.
const SchemaV21 = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

type Collection struct {
	Info Info    `json:"info"`
	Item []*Item `json:"item"`
}

type Info struct {
	PostmanID   string `json:"_postman_id,omitempty"`
	Name        string `json:"name"`
	Description Text   `json:"description,omitempty"`
	Schema      string `json:"schema"`
}

// Item is a leaf (Request set) or a folder (Item non-nil).
type Item struct {
	Name                    string         `json:"name"`
	ID                      string         `json:"id,omitempty"`
	Description             Text           `json:"description,omitempty"`
	Event                   []*Event       `json:"event,omitempty"`
	ProtocolProfileBehavior map[string]any `json:"protocolProfileBehavior,omitempty"`
	Request                 *Request       `json:"request,omitempty"`
	Response                any            `json:"response,omitempty"`
	Item                    []*Item        `json:"item,omitempty"`
	Extra                   map[string]any `json:"-"`
}

// IsFolder reports whether the item carries a nested item list.
func (i *Item) IsFolder() bool {
	return i.Item != nil
}

var itemKeys = []string{"name", "id", "description", "event", "protocolProfileBehavior", "request", "response", "item"}

func (i *Item) MarshalJSON() ([]byte, error) {
	type plain Item
	return marshalWithExtra((*plain)(i), i.Extra)
}

func (i *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	if err := json.Unmarshal(data, (*plain)(i)); err != nil {
		return err
	}
	extra, err := unknownKeys(data, itemKeys)
	if err != nil {
		return err
	}
	i.Extra = extra
	return nil
}

type Event struct {
	Listen string `json:"listen"`
	Script Script `json:"script"`
}

type Script struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type,omitempty"`
	Exec Lines  `json:"exec"`
}

// Lines is a script body split on newlines. Decoding also accepts a single
// string.
type Lines []string

func (l *Lines) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = Lines{s}
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("script exec must be a string or a list of strings: %w", err)
	}
	*l = lines
	return nil
}

type Request struct {
	Method      string    `json:"method"`
	Header      []*Header `json:"header"`
	Body        *Body     `json:"body,omitempty"`
	URL         *URL      `json:"url,omitempty"`
	Auth        any       `json:"auth,omitempty"`
	Description Text      `json:"description,omitempty"`
}

type Header struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Type     string `json:"type,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Body keeps raw and formdata typed; urlencoded, options, graphql and any
// other body keys pass through in Extra.
type Body struct {
	Mode     string         `json:"mode,omitempty"`
	Raw      string         `json:"raw,omitempty"`
	FormData []*FormParam   `json:"formdata,omitempty"`
	Extra    map[string]any `json:"-"`
}

var bodyKeys = []string{"mode", "raw", "formdata"}

func (b *Body) MarshalJSON() ([]byte, error) {
	type plain Body
	return marshalWithExtra((*plain)(b), b.Extra)
}

func (b *Body) UnmarshalJSON(data []byte) error {
	type plain Body
	if err := json.Unmarshal(data, (*plain)(b)); err != nil {
		return err
	}
	extra, err := unknownKeys(data, bodyKeys)
	if err != nil {
		return err
	}
	b.Extra = extra
	return nil
}

// FormParam is a formdata record. File records carry type "file" and src.
type FormParam struct {
	Key         string `json:"key"`
	Value       string `json:"value,omitempty"`
	Type        string `json:"type,omitempty"`
	Src         any    `json:"src,omitempty"`
	Description Text   `json:"description,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

// URL is the structured request URL. Decoding also accepts a plain string,
// which is stored as Raw.
type URL struct {
	Raw      string        `json:"raw"`
	Protocol string        `json:"protocol,omitempty"`
	Host     []string      `json:"host,omitempty"`
	Port     string        `json:"port,omitempty"`
	Path     []string      `json:"path,omitempty"`
	Query    []*QueryParam `json:"query,omitempty"`
	Hash     string        `json:"hash,omitempty"`
	Variable []*Variable   `json:"variable"`
}

func (u *URL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*u = URL{Raw: s}
		return nil
	}
	type plain URL
	return json.Unmarshal(data, (*plain)(u))
}

type QueryParam struct {
	Key         *string `json:"key"`
	Value       *string `json:"value"`
	Description Text    `json:"description,omitempty"`
	Disabled    bool    `json:"disabled,omitempty"`
}

type Variable struct {
	Key         string `json:"key"`
	Value       any    `json:"value"`
	Type        string `json:"type,omitempty"`
	Description Text   `json:"description,omitempty"`
}

// Text is a description that may be written either as a string or as an
// object with a content field.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var obj struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("description must be a string or an object: %w", err)
	}
	*t = Text(obj.Content)
	return nil
}

package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/tidwall/gjson"
)

var schemaPattern = regexp.MustCompile(`/v2\.[0-9]+\.0/collection\.json`)

// FormatError reports input that is not a supported collection.
type FormatError struct {
	File   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("unsupported collection format: %s", e.Reason)
	}
	return fmt.Sprintf("%s: unsupported collection format: %s", e.File, e.Reason)
}

// Check verifies that data looks like a v2.x collection: the schema
// identifier names a v2 collection, the item list is non-empty and its
// first entry is a leaf or a folder.
func Check(data []byte, file string) error {
	if !gjson.ValidBytes(data) {
		return &FormatError{File: file, Reason: "invalid JSON"}
	}

	schema := gjson.GetBytes(data, "info.schema")
	if !schemaPattern.MatchString(schema.String()) {
		return &FormatError{File: file, Reason: fmt.Sprintf("schema %q is not a v2.x collection", schema.String())}
	}

	items := gjson.GetBytes(data, "item")
	if !items.IsArray() || len(items.Array()) == 0 {
		return &FormatError{File: file, Reason: "item list is missing or empty"}
	}

	first := items.Array()[0]
	if !first.Get("request").Exists() && !first.Get("item").Exists() {
		return &FormatError{File: file, Reason: "first item has neither request nor item"}
	}
	return nil
}

// Decode checks and decodes a collection.
func Decode(data []byte, file string) (*Collection, error) {
	if err := Check(data, file); err != nil {
		return nil, err
	}
	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, &FormatError{File: file, Reason: err.Error()}
	}
	return &c, nil
}

// Load reads and decodes a collection file.
func Load(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Decode(data, path)
}

// Marshal encodes c as indented JSON.
func Marshal(c *Collection) ([]byte, error) {
	data, err := encode(c)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Write encodes c and writes it to path.
func Write(c *Collection, path string) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

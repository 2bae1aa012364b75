package collection

import (
	"bytes"
	"encoding/json"
	"slices"
	"sort"
)

// encode marshals v without HTML escaping so script bodies keep their
// operators readable.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// marshalWithExtra encodes v and appends the extra keys, sorted, before the
// closing brace of the object.
func marshalWithExtra(v any, extra map[string]any) ([]byte, error) {
	data, err := encode(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	for _, k := range keys {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		name, err := encode(k)
		if err != nil {
			return nil, err
		}
		value, err := encode(extra[k])
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// unknownKeys returns the members of the JSON object in data whose names
// are not in known. Numbers are kept as json.Number.
func unknownKeys(data []byte, known []string) (map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var extra map[string]any
	for k, v := range raw {
		if slices.Contains(known, k) {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(v))
		dec.UseNumber()
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = value
	}
	return extra, nil
}
